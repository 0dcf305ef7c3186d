package arena

// Direction is one of the eight compass facings. The numeric order matches
// the sprite sheet rows the renderer uses.
type Direction int

const (
	Down Direction = iota
	DownRight
	Right
	UpRight
	Up
	UpLeft
	Left
	DownLeft
)

const numDirections = 8

var directionNames = [numDirections]string{
	"down", "down_right", "right", "up_right", "up", "up_left", "left", "down_left",
}

var directionSteps = [numDirections][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

func (d Direction) String() string {
	if d < 0 || d >= numDirections {
		return "invalid"
	}
	return directionNames[d]
}

// Step returns the per-axis unit movement for d.
func (d Direction) Step() (int, int) {
	if d < 0 || d >= numDirections {
		return 0, 0
	}
	s := directionSteps[d]
	return s[0], s[1]
}

// FromStep maps a per-axis movement back to a facing. A zero step faces Down.
// It reports false when either component is outside -1..1.
func FromStep(x, y int) (Direction, bool) {
	if x == 0 && y == 0 {
		return Down, true
	}
	for d, s := range directionSteps {
		if s[0] == x && s[1] == y {
			return Direction(d), true
		}
	}
	return Down, false
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
