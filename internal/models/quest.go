package models

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v2"
)

//go:embed quest_tracks.yaml
var questTracksYAML []byte

type AggregateKey string

const (
	AggregateCards AggregateKey = "cards"
	AggregateLikes AggregateKey = "likes"
	AggregateViews AggregateKey = "views"
)

type Milestone struct {
	Goal   int `yaml:"goal" json:"goal"`
	Reward int `yaml:"reward" json:"reward"`
}

type QuestTrack struct {
	Path       int          `yaml:"path" json:"path"`
	Key        AggregateKey `yaml:"key" json:"key"`
	Milestones []Milestone  `yaml:"milestones" json:"milestones"`
}

// QuestID is the key of the awarded flag in a user's quest map, e.g. "cards-10".
func (t QuestTrack) QuestID(m Milestone) string {
	return fmt.Sprintf("%s-%d", t.Key, m.Goal)
}

type questConfig struct {
	Tracks []QuestTrack `yaml:"tracks"`
}

// ParseQuestTracks decodes a track table and sorts each ladder by ascending goal.
func ParseQuestTracks(data []byte) ([]QuestTrack, error) {
	var cfg questConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing quest tracks yaml: %w", err)
	}

	for i, track := range cfg.Tracks {
		switch track.Key {
		case AggregateCards, AggregateLikes, AggregateViews:
		default:
			return nil, fmt.Errorf("quest track %d has unknown key %q", track.Path, track.Key)
		}
		seen := make(map[int]bool, len(track.Milestones))
		for _, m := range track.Milestones {
			if m.Goal <= 0 || m.Reward < 0 {
				return nil, fmt.Errorf("quest track %d has invalid milestone %+v", track.Path, m)
			}
			if seen[m.Goal] {
				return nil, fmt.Errorf("quest track %d has duplicate goal %d", track.Path, m.Goal)
			}
			seen[m.Goal] = true
		}
		ms := cfg.Tracks[i].Milestones
		sort.SliceStable(ms, func(a, b int) bool { return ms[a].Goal < ms[b].Goal })
	}
	return cfg.Tracks, nil
}

var defaultQuestTracks []QuestTrack

func init() {
	tracks, err := ParseQuestTracks(questTracksYAML)
	if err != nil {
		panic(err)
	}
	defaultQuestTracks = tracks
}

// DefaultQuestTracks returns a copy of the embedded track table.
func DefaultQuestTracks() []QuestTrack {
	tracks := make([]QuestTrack, len(defaultQuestTracks))
	for i, t := range defaultQuestTracks {
		tracks[i] = t
		tracks[i].Milestones = append([]Milestone(nil), t.Milestones...)
	}
	return tracks
}
