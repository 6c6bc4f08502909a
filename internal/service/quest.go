package service

import (
	"card-swipe/internal/models"
	"card-swipe/internal/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type QuestAward struct {
	QuestID string `json:"questId"`
	Reward  int    `json:"reward"`
}

type QuestEvaluation struct {
	Username string       `json:"username"`
	Coins    int          `json:"coins"`
	Awarded  []QuestAward `json:"awarded"`
}

type MilestoneStatus struct {
	QuestID  string `json:"questId"`
	Goal     int    `json:"goal"`
	Reward   int    `json:"reward"`
	Achieved bool   `json:"achieved"`
	Awarded  bool   `json:"awarded"`
}

type TrackStatus struct {
	Path       int                 `json:"path"`
	Key        models.AggregateKey `json:"key"`
	Value      int                 `json:"value"`
	Milestones []MilestoneStatus   `json:"milestones"`
}

// QuestEngine awards each (track, goal) milestone at most once per user. The
// persisted flag is the only record of an award; the award write is rejected
// by the store if the flag is already set.
type QuestEngine struct {
	logger *logrus.Entry
	repo   utils.UserRepository
	tracks []models.QuestTrack
}

func NewQuestEngine(logger *logrus.Entry, repo utils.UserRepository, tracks []models.QuestTrack) *QuestEngine {
	return &QuestEngine{
		logger: logger,
		repo:   repo,
		tracks: tracks,
	}
}

func (q *QuestEngine) Tracks() []models.QuestTrack {
	return q.tracks
}

// Evaluate reads username's current statistics and awards every reached
// milestone that is not yet flagged, in track and ascending goal order.
func (q *QuestEngine) Evaluate(ctx context.Context, username string) (*QuestEvaluation, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return nil, err
	}
	user, err := q.repo.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.Quests == nil {
		user.Quests = map[string]bool{}
	}

	stats := user.Stats()
	result := &QuestEvaluation{Username: username, Coins: user.Coins, Awarded: []QuestAward{}}

	for _, track := range q.tracks {
		value := stats.Value(track.Key)
		for _, m := range track.Milestones {
			questID := track.QuestID(m)
			if value < m.Goal || user.QuestAwarded(questID) {
				continue
			}

			coins := result.Coins + m.Reward
			applied, err := q.repo.SaveQuestAward(ctx, username, questID, coins)
			if err != nil {
				return result, err
			}
			if !applied {
				// Another evaluation flagged it first. Carry on from its balance.
				if user, err = q.repo.GetUser(ctx, username); err != nil {
					return result, err
				}
				if user == nil {
					return result, ErrUserNotFound
				}
				if user.Quests == nil {
					user.Quests = map[string]bool{}
				}
				result.Coins = user.Coins
				continue
			}

			user.Quests[questID] = true
			result.Coins = coins
			result.Awarded = append(result.Awarded, QuestAward{QuestID: questID, Reward: m.Reward})
		}
	}

	if len(result.Awarded) > 0 {
		q.logger.WithFields(logrus.Fields{
			"username": username,
			"awarded":  len(result.Awarded),
			"coins":    result.Coins,
		}).Info("Quest rewards issued")
	}
	return result, nil
}

// TriggerQuestEvaluation evaluates in-process, for deployments without a
// separate quest function.
func (q *QuestEngine) TriggerQuestEvaluation(ctx context.Context, username string) error {
	_, err := q.Evaluate(ctx, username)
	return err
}

// Status reports achievement per milestone without awarding anything.
func (q *QuestEngine) Status(user *models.User) []TrackStatus {
	stats := user.Stats()
	statuses := make([]TrackStatus, 0, len(q.tracks))
	for _, track := range q.tracks {
		value := stats.Value(track.Key)
		ts := TrackStatus{Path: track.Path, Key: track.Key, Value: value}
		for _, m := range track.Milestones {
			questID := track.QuestID(m)
			ts.Milestones = append(ts.Milestones, MilestoneStatus{
				QuestID:  questID,
				Goal:     m.Goal,
				Reward:   m.Reward,
				Achieved: value >= m.Goal,
				Awarded:  user.QuestAwarded(questID),
			})
		}
		statuses = append(statuses, ts)
	}
	return statuses
}

var _ utils.QuestTrigger = (*QuestEngine)(nil)
