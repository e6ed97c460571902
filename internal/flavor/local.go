package flavor

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"
)

type Mood string

const (
	MoodSleepy    Mood = "sleepy"
	MoodEnergetic Mood = "energetic"
	MoodCheerful  Mood = "cheerful"
)

var pools = map[Mood][]string{
	MoodSleepy: {
		"The moon is tucking the stars into bed, and it's your turn soon.",
		"Owls stay up late so you don't have to. Sweet dreams!",
		"Sloths sleep up to fifteen hours a day. Time to be a sloth!",
		"Close your eyes and count the sheep jumping over the moon.",
		"Even dinosaurs needed a good night's sleep to grow big and strong.",
	},
	MoodEnergetic: {
		"A cheetah can run as fast as a car. Let's go, go, go!",
		"Kangaroos can't walk backwards, so keep hopping forward!",
		"Your heart is a muscle. Give it a fun workout today!",
		"Ready, set, play! You've got superhero energy right now.",
		"Hummingbirds flap their wings up to eighty times a second. Buzz buzz!",
	},
	MoodCheerful: {
		"Octopuses have three hearts, and you have one big kind one.",
		"A group of flamingos is called a flamboyance. How fancy!",
		"Butterflies taste with their feet. Imagine tasting your socks!",
		"Every rainbow has seven colors. Can you name them all?",
		"Honey never spoils. Bees are the best little chefs!",
	},
}

var sleepyWords = []string{"bed", "sleep", "nap", "dream", "night", "rest", "quiet"}

// LocalProvider picks a line from built-in pools. Equal requests yield the
// same line.
type LocalProvider struct{}

func NewLocalProvider() LocalProvider { return LocalProvider{} }

func (LocalProvider) Message(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	pool := pools[MoodFor(req)]
	h := fnv.New32a()
	_, _ = h.Write([]byte(req.EventTitle))
	_, _ = h.Write([]byte(strconv.Itoa(req.Hour)))
	_, _ = h.Write([]byte(req.TimeOfDay))
	return pool[h.Sum32()%uint32(len(pool))], nil
}

// MoodFor chooses sleepy for bedtime-like events or late hours, energetic
// while any other activity runs, and cheerful otherwise.
func MoodFor(req Request) Mood {
	title := strings.ToLower(req.EventTitle)
	for _, w := range sleepyWords {
		if req.HasEvent && strings.Contains(title, w) {
			return MoodSleepy
		}
	}
	if req.Hour >= 20 || req.Hour < 6 {
		return MoodSleepy
	}
	if req.HasEvent {
		return MoodEnergetic
	}
	return MoodCheerful
}
