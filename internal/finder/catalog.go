// File: internal/finder/catalog.go
package finder

// defaultKeywords is the built-in multilingual lexical catalog for
// vote/like/favorite semantics. Callers extend it through Config before a
// run starts; it is never mutated in place.
var defaultKeywords = []string{
	// Chinese
	"点赞", "赞", "喜欢", "顶", "支持",
	"点踩", "踩", "不喜欢", "倒", "反对",
	"投票", "评分", "评价", "收藏", "分享",
	// English
	"like", "upvote", "up vote", "up-vote", "thumbs up", "+1",
	"dislike", "downvote", "down vote", "down-vote", "thumbs down", "-1",
	"vote", "rating", "rate", "favorite", "bookmark", "share", "react",
	"helpful", "recommend", "agree", "disagree", "support", "oppose",
}

// defaultSelectors is the fixed catalog of structural CSS heuristics for
// interaction controls. Not runtime-mutable.
var defaultSelectors = []string{
	"button", "a.vote", "a.like", "div.vote", "div.like",
	"span.vote", "span.like", "i.fa-thumbs-up", "i.fa-thumbs-down",
	`[aria-label*="like"]`, `[aria-label*="vote"]`, `[title*="like"]`, `[title*="vote"]`,
	".vote-up", ".vote-down", ".upvote", ".downvote", ".like-button", ".dislike-button",
	`[data-action="upvote"]`, `[data-action="downvote"]`, `[data-action="like"]`,
}

// DefaultKeywords returns a copy of the built-in keyword catalog.
func DefaultKeywords() []string {
	out := make([]string, len(defaultKeywords))
	copy(out, defaultKeywords)
	return out
}

// DefaultSelectors returns a copy of the built-in selector pattern catalog.
func DefaultSelectors() []string {
	out := make([]string, len(defaultSelectors))
	copy(out, defaultSelectors)
	return out
}
