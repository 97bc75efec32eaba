package game

const feedMaxEntries = 60

// FeedEntry is a single line in the on-screen feed.
type FeedEntry struct {
	Tick    int
	Label   string // e.g. "P", "E3"
	Team    Team
	Message string
}

// FeedLog is a ring buffer of kill and upgrade messages shown by hosts.
type FeedLog struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewFeedLog creates a feed with a fixed capacity.
func NewFeedLog() *FeedLog {
	return &FeedLog{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (fl *FeedLog) Add(tick int, label string, team Team, msg string) {
	fl.entries[fl.head] = FeedEntry{
		Tick:    tick,
		Label:   label,
		Team:    team,
		Message: msg,
	}
	fl.head = (fl.head + 1) % feedMaxEntries
	if fl.count < feedMaxEntries {
		fl.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (fl *FeedLog) Recent() []FeedEntry {
	result := make([]FeedEntry, fl.count)
	for i := 0; i < fl.count; i++ {
		idx := (fl.head - fl.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = fl.entries[idx]
	}
	return result
}

// Last returns up to n of the newest entries, oldest first.
func (fl *FeedLog) Last(n int) []FeedEntry {
	all := fl.Recent()
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// Clear empties the feed.
func (fl *FeedLog) Clear() {
	fl.head, fl.count = 0, 0
}
