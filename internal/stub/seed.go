package stub

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/matcha-app/matcha-tui/internal/types"
)

var seedNames = []string{
	"Ada", "Linus", "Grace", "Alan", "Margaret", "Dennis", "Barbara", "Ken",
	"Radia", "Edsger", "Frances", "Donald", "Hedy", "Claude", "Katherine",
	"Tim", "Annie", "John", "Mary", "Bjarne",
}

var seedTags = []string{"tea", "climbing", "vinyl", "cooking", "cinema", "running", "chess", "gardening"}

// SeedProfiles builds count deterministic candidate profiles. The fixed seed
// keeps sessions reproducible across restarts of the stub.
func SeedProfiles(count int) []types.CandidateProfile {
	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	profiles := make([]types.CandidateProfile, count)
	for i := range profiles {
		name := seedNames[i%len(seedNames)]
		online := rng.Intn(3) == 0
		lastSeen := now
		if !online {
			lastSeen = now.Add(-time.Duration(rng.Intn(72)+1) * time.Hour)
		}
		dist := float64(rng.Intn(400)) / 10
		tags := []string{seedTags[i%len(seedTags)]}
		if rng.Intn(2) == 0 {
			tags = append(tags, seedTags[(i+3)%len(seedTags)])
		}
		profiles[i] = types.CandidateProfile{
			ID:             i + 1,
			FirstName:      name,
			LastName:       fmt.Sprintf("Doe%02d", i+1),
			Age:            20 + rng.Intn(25),
			Location:       "Paris",
			Biography:      fmt.Sprintf("Hi, I'm %s. Ask me about %s.", name, tags[0]),
			FameRating:     float64(rng.Intn(10000)) / 100,
			IsOnline:       online,
			LastSeen:       lastSeen,
			ProfilePicture: fmt.Sprintf("avatar_%02d.png", i%12),
			Tags:           tags,
			DistanceKm:     &dist,
		}
	}
	return profiles
}
