package tasks

import "time"

// VerifyKind selects which verification operation confirms a task.
type VerifyKind string

const (
	// VerifyNone completes locally after the delay, no external call.
	VerifyNone VerifyKind = "none"
	// VerifyFollow checks the follow graph for the target handle.
	VerifyFollow VerifyKind = "follow"
	// VerifyRetweet scans recent tweets for a retweet of the target id.
	VerifyRetweet VerifyKind = "retweet"
	// VerifyTweet posts the target text as the linked account.
	VerifyTweet VerifyKind = "tweet"
)

// Status is the per-task state machine position.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Task is a static task definition. Definitions are configuration, not
// persisted state; only the completion flag persists.
type Task struct {
	Name         string
	Description  string
	Reward       int
	Icon         string
	RequiresAuth bool
	Link         string

	Verify VerifyKind

	// Target is the verification subject: the handle for follow
	// checks, the tweet id for retweet checks, the share text for
	// tweet posts.
	Target string

	// Delay is the heuristic wait before verification fires, giving
	// the external platform time to register the action. A false
	// negative just leaves the task claimable.
	Delay time.Duration
}

// DefaultTasks is the built-in task table used when no config file is given.
func DefaultTasks() []Task {
	return []Task{
		{
			Name:         "Follow Twitter",
			Description:  "Follow our official Twitter account",
			Reward:       1000,
			Icon:         "🐦",
			RequiresAuth: true,
			Link:         "https://twitter.com/intent/follow?screen_name=JumpGorby",
			Verify:       VerifyFollow,
			Target:       "JumpGorby",
			Delay:        5 * time.Second,
		},
		{
			Name:         "Retweet",
			Description:  "Retweet our latest announcement",
			Reward:       500,
			Icon:         "🔄",
			RequiresAuth: true,
			Link:         "https://twitter.com/intent/retweet?tweet_id=1940748103008899446",
			Verify:       VerifyRetweet,
			Target:       "1940748103008899446",
			Delay:        5 * time.Second,
		},
		{
			Name:        "Join Discord",
			Description: "Join our Discord community",
			Reward:      2000,
			Icon:        "💬",
			Link:        "https://discord.gg/GORBY-JUMP",
			Verify:      VerifyNone,
			Delay:       3 * time.Second,
		},
		{
			Name:        "Daily Login",
			Description: "Login daily to earn bonus GORBY",
			Reward:      250,
			Icon:        "📅",
			Verify:      VerifyNone,
			Delay:       time.Second,
		},
		{
			Name:         "Share Game",
			Description:  "Share the game with friends",
			Reward:       750,
			Icon:         "📤",
			RequiresAuth: true,
			Verify:       VerifyTweet,
			Target:       "Playing GORBY Jump and earning $GORBY! Join me in this amazing Web3 game! 🎮🚀",
			Delay:        time.Second,
		},
	}
}
