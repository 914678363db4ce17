// Package keywords provides the built-in search keyword lists and reads
// operator-supplied keyword files.
package keywords

import (
	"math/rand"
	"sort"
	"time"
)

const DefaultCategory = "technology"

var lists = map[string][]string{
	"technology": {
		"artificial intelligence", "machine learning", "data science", "cloud computing",
		"cybersecurity", "blockchain", "IoT devices", "5G technology", "quantum computing",
		"virtual reality", "augmented reality", "robotics", "automation", "big data",
		"edge computing", "devops", "microservices", "API development", "web3", "metaverse",
	},
	"news": {
		"breaking news", "world politics", "economic trends", "climate change",
		"health updates", "science discoveries", "technology innovations", "sports events",
		"entertainment news", "business developments", "stock market", "crypto news",
		"space exploration", "environmental issues", "social media trends",
	},
	"sports": {
		"football highlights", "basketball scores", "tennis tournaments", "Olympics 2024",
		"sports injuries", "team transfers", "championship results", "athlete interviews",
		"fitness tips", "sports technology", "esports tournaments", "fantasy sports",
		"sports betting", "nutrition for athletes", "training techniques",
	},
	"entertainment": {
		"movie reviews", "celebrity news", "music releases", "TV show ratings",
		"gaming updates", "streaming services", "box office results", "award shows",
		"book releases", "theater performances", "art exhibitions", "festival news",
		"social media influencers", "podcast recommendations", "comedy specials",
	},
	"education": {
		"online learning", "educational technology", "teaching methods", "student resources",
		"STEM education", "language learning", "career development", "university rankings",
		"scholarship opportunities", "research papers", "academic conferences",
		"learning psychology", "education reform", "homeschooling tips", "educational apps",
	},
	"business": {
		"startup funding", "market analysis", "leadership skills", "digital marketing",
		"remote work", "entrepreneurship", "business strategy", "financial planning",
		"supply chain", "customer experience", "innovation management", "mergers acquisitions",
		"brand building", "sales techniques", "economic indicators",
	},
}

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Categories returns the known category names, sorted.
func Categories() []string {
	names := make([]string, 0, len(lists))
	for name := range lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns a copy of the keywords for category, falling back to
// technology for unknown categories.
func List(category string) []string {
	list, ok := lists[category]
	if !ok {
		list = lists[DefaultCategory]
	}
	return append([]string(nil), list...)
}

// Select draws up to count distinct keywords from category in random order.
// A nil rng uses a time-seeded source.
func Select(category string, count int, rng Shuffler) []string {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	shuffled := List(category)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count < 0 {
		count = 0
	}
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}
