package arena

import "fmt"

// Activity is the coarse animation state the renderer reads.
type Activity int

const (
	Idle Activity = iota
	Walk
	Sword
	Bow
	Staff
	Hurt
	Dead
)

var activityNames = [...]string{"idle", "walk", "sword", "bow", "staff", "hurt", "dead"}

func (a Activity) String() string {
	if a < 0 || int(a) >= len(activityNames) {
		return "unknown"
	}
	return activityNames[a]
}

func ParseActivity(s string) (Activity, error) {
	for i, n := range activityNames {
		if n == s {
			return Activity(i), nil
		}
	}
	return Idle, fmt.Errorf("unknown activity %q", s)
}

// Level tracks experience. Multiplier scales every award the agent earns.
type Level struct {
	Level      int
	XP         float64
	Multiplier float64
}

type Agent struct {
	Handle Handle
	Class  Class
	Player bool
	// Sprite is cosmetic and never read by the simulation.
	Sprite string

	Pos    Vec2
	Facing Direction
	Speed  float64

	Health    float64
	MaxHealth float64
	Attack    float64
	Defense   float64
	Level     Level

	// Partner is the current combat partner, None when unengaged.
	Partner        Handle
	AttackInterval float64
	AttackTimer    float64

	Activity       Activity
	attackActivity Activity
}

// AttackActivity is the class-specific attack animation tag.
func (a *Agent) AttackActivity() Activity { return a.attackActivity }

// Dying reports whether the agent's health has crossed below zero and it is
// waiting for lifecycle removal.
func (a *Agent) Dying() bool { return a.Health < 0 }

// Engaged reports whether the agent claims a combat partner. The partner may
// have been removed since; Store.PartnerOf checks that.
func (a *Agent) Engaged() bool { return a.Partner != None }

func (a Activity) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
