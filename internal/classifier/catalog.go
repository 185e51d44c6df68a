package classifier

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"activity-tracker-be/internal/entity"

	"github.com/google/uuid"
)

// FeedbackHistorySize caps the rolling feedback history. Oldest records are
// evicted first.
const FeedbackHistorySize = 1000

var (
	ErrRuleNotFound  = fmt.Errorf("rule not found")
	ErrInvalidRule   = fmt.Errorf("invalid rule")
	ErrCorruptImport = fmt.Errorf("corrupt catalog import")
)

type prefKey struct {
	app   string
	title string
}

// feedbackRing is a bounded circular buffer with O(1) eviction.
type feedbackRing struct {
	buf  []entity.FeedbackRecord
	head int
	size int
}

func newFeedbackRing(capacity int) *feedbackRing {
	return &feedbackRing{buf: make([]entity.FeedbackRecord, capacity)}
}

func (r *feedbackRing) push(rec entity.FeedbackRecord) {
	idx := (r.head + r.size) % len(r.buf)
	r.buf[idx] = rec
	if r.size < len(r.buf) {
		r.size++
	} else {
		// Full: the slot we just wrote was the oldest, advance head.
		r.head = (r.head + 1) % len(r.buf)
	}
}

// records returns history oldest-first.
func (r *feedbackRing) records() []entity.FeedbackRecord {
	out := make([]entity.FeedbackRecord, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(r.head+i)%len(r.buf)])
	}
	return out
}

// Catalog owns the mutable classification state: the ordered rule list,
// per-user preference overrides and the rolling feedback history. It is
// constructor-injected into the engine; there is no package-level instance.
type Catalog struct {
	mu       sync.RWMutex
	rules    []*entity.CategoryRule
	seq      map[uuid.UUID]int // insertion order, tie-breaker for equal priority
	nextSeq  int
	prefs    map[prefKey]entity.UserPreference
	feedback *feedbackRing

	// onChange fires after any mutation, used to invalidate caches.
	onChange func()
}

func NewCatalog() *Catalog {
	return &Catalog{
		seq:      make(map[uuid.UUID]int),
		prefs:    make(map[prefKey]entity.UserPreference),
		feedback: newFeedbackRing(FeedbackHistorySize),
	}
}

// OnChange registers a callback invoked after every catalog mutation.
func (c *Catalog) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Catalog) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

func validateRule(rule *entity.CategoryRule) error {
	if rule.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidRule)
	}
	if rule.ProductivityScore < 0 || rule.ProductivityScore > 1 {
		return fmt.Errorf("%w: productivity score %v outside [0,1]", ErrInvalidRule, rule.ProductivityScore)
	}
	for _, tr := range rule.TimeRules {
		if tr.StartHour < 0 || tr.StartHour > 23 || tr.EndHour < 1 || tr.EndHour > 24 || tr.StartHour >= tr.EndHour {
			return fmt.Errorf("%w: time rule hours %d-%d", ErrInvalidRule, tr.StartHour, tr.EndHour)
		}
	}
	return nil
}

// resort restores ascending priority order, stable on insertion sequence.
// Callers hold the write lock.
func (c *Catalog) resort() {
	sort.SliceStable(c.rules, func(i, j int) bool {
		if c.rules[i].Priority != c.rules[j].Priority {
			return c.rules[i].Priority < c.rules[j].Priority
		}
		return c.seq[c.rules[i].Id] < c.seq[c.rules[j].Id]
	})
}

// AddRule inserts a rule. A zero Id gets a fresh one.
func (c *Catalog) AddRule(rule *entity.CategoryRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if rule.Id == uuid.Nil {
		rule.Id = uuid.New()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}
	c.seq[rule.Id] = c.nextSeq
	c.nextSeq++
	c.rules = append(c.rules, rule)
	c.resort()
	c.notify()
	return nil
}

// UpdateRule replaces the rule with the same id, re-sorting on priority.
func (c *Catalog) UpdateRule(rule *entity.CategoryRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.rules {
		if r.Id == rule.Id {
			now := time.Now()
			rule.CreatedAt = r.CreatedAt
			rule.UpdatedAt = &now
			c.rules[i] = rule
			c.resort()
			c.notify()
			return nil
		}
	}
	return ErrRuleNotFound
}

func (c *Catalog) DeleteRule(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.rules {
		if r.Id == id {
			c.rules = append(c.rules[:i], c.rules[i+1:]...)
			delete(c.seq, id)
			c.notify()
			return nil
		}
	}
	return ErrRuleNotFound
}

// ToggleRule sets the enablement flag. The rule pointer is replaced rather
// than mutated, since readers hold pointers obtained outside the lock.
func (c *Catalog) ToggleRule(id uuid.UUID, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.rules {
		if r.Id == id {
			toggled := *r
			toggled.Enabled = enabled
			c.rules[i] = &toggled
			c.notify()
			return nil
		}
	}
	return ErrRuleNotFound
}

// Rules returns the rule list in evaluation order. The slice is a copy and
// the pointed-to rules are immutable: every catalog mutation replaces the
// rule pointer instead of writing through it, so holders of a previous
// snapshot never observe a torn rule.
func (c *Catalog) Rules() []*entity.CategoryRule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*entity.CategoryRule, len(c.rules))
	copy(out, c.rules)
	return out
}

func (c *Catalog) Rule(id uuid.UUID) (*entity.CategoryRule, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.rules {
		if r.Id == id {
			return r, nil
		}
	}
	return nil, ErrRuleNotFound
}

// Preference looks up the exact (app, title) override.
func (c *Catalog) Preference(appName, title string) (entity.UserPreference, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.prefs[prefKey{app: appName, title: title}]
	return p, ok
}

func (c *Catalog) setPreferenceLocked(appName, title, category string) {
	c.prefs[prefKey{app: appName, title: title}] = entity.UserPreference{
		AppName:     appName,
		WindowTitle: title,
		Category:    category,
		UpdatedAt:   time.Now(),
	}
}

// RestorePreference reinstates a persisted preference without touching the
// feedback history.
func (c *Catalog) RestorePreference(pref entity.UserPreference) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs[prefKey{app: pref.AppName, title: pref.WindowTitle}] = pref
	c.notify()
}

// AddFeedback appends a feedback record and, on a confirmed correct
// classification, pins the preference for that exact key.
func (c *Catalog) AddFeedback(appName, title, category string, isCorrect bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedback.push(entity.FeedbackRecord{
		AppName:     appName,
		WindowTitle: title,
		Category:    category,
		IsCorrect:   isCorrect,
		CreatedAt:   time.Now(),
	})
	if isCorrect {
		c.setPreferenceLocked(appName, title, category)
	}
	c.notify()
}

// Feedback returns the history oldest-first.
func (c *Catalog) Feedback() []entity.FeedbackRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.feedback.records()
}

// Export is the portable catalog document.
type Export struct {
	Rules       []*entity.CategoryRule  `json:"rules"`
	Preferences []entity.UserPreference `json:"preferences"`
	ExportedAt  time.Time               `json:"exported_at"`
}

// ExportJSON serializes rules and preferences.
func (c *Catalog) ExportJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc := Export{
		Rules:      make([]*entity.CategoryRule, len(c.rules)),
		ExportedAt: time.Now(),
	}
	copy(doc.Rules, c.rules)
	for _, p := range c.prefs {
		doc.Preferences = append(doc.Preferences, p)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ImportJSON validates the whole document before applying anything. A
// corrupt document leaves the existing catalog untouched.
func (c *Catalog) ImportJSON(data []byte) error {
	var doc Export
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptImport, err)
	}
	seen := make(map[uuid.UUID]bool, len(doc.Rules))
	for _, r := range doc.Rules {
		if r == nil || r.Id == uuid.Nil {
			return fmt.Errorf("%w: rule without id", ErrCorruptImport)
		}
		if seen[r.Id] {
			return fmt.Errorf("%w: duplicate rule id %s", ErrCorruptImport, r.Id)
		}
		seen[r.Id] = true
		if err := validateRule(r); err != nil {
			return fmt.Errorf("%w: rule %s: %v", ErrCorruptImport, r.Id, err)
		}
	}
	for _, p := range doc.Preferences {
		if p.AppName == "" || p.Category == "" {
			return fmt.Errorf("%w: preference missing app or category", ErrCorruptImport)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = c.rules[:0]
	c.seq = make(map[uuid.UUID]int, len(doc.Rules))
	c.nextSeq = 0
	for _, r := range doc.Rules {
		c.seq[r.Id] = c.nextSeq
		c.nextSeq++
		c.rules = append(c.rules, r)
	}
	c.resort()
	c.prefs = make(map[prefKey]entity.UserPreference, len(doc.Preferences))
	for _, p := range doc.Preferences {
		c.prefs[prefKey{app: p.AppName, title: p.WindowTitle}] = p
	}
	c.notify()
	return nil
}
