package arena

import "strconv"

// Handle identifies an agent in a Store. The upper 32 bits carry the slot
// generation, the lower 32 bits the slot index (1-based). The zero Handle is
// never issued.
type Handle uint64

const indexBits = 32

// None is the empty handle.
const None Handle = 0

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<indexBits | uint64(index))
}

func (h Handle) index() uint32 { return uint32(h) }
func (h Handle) gen() uint32   { return uint32(uint64(h) >> indexBits) }

// Valid reports whether h could have been issued by a store. It does not
// check liveness; use Store.Alive for that.
func (h Handle) Valid() bool { return h.index() != 0 }

func (h Handle) String() string {
	if h.gen() == 0 {
		return strconv.FormatUint(uint64(h.index()), 10)
	}
	return strconv.FormatUint(uint64(h.index()), 10) + "v" + strconv.FormatUint(uint64(h.gen()), 10)
}
