package store

import (
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/models"
)

// DefaultRulesKey is the key under which learned rules are persisted.
const DefaultRulesKey = "learned-category-rules"

// rulesDocument is the persisted layout.
type rulesDocument struct {
	Rules []models.LearnedCategoryRule `yaml:"rules"`
}

// PatternStore keeps user-taught pattern→category overrides.
//
// Reads never fail: a missing, unreadable or corrupted store behaves as an
// empty one. Mutations persist the full rule set and only report an error
// when the write itself fails.
type PatternStore struct {
	kv     KeyValueStore
	key    string
	logger logging.Logger
	now    func() time.Time

	mu     sync.Mutex
	rules  []models.LearnedCategoryRule
	loaded bool
}

// NewPatternStore creates a PatternStore persisting under key in kv.
func NewPatternStore(kv KeyValueStore, key string, logger logging.Logger) *PatternStore {
	if kv == nil {
		kv = NewMemoryKV()
	}
	if key == "" {
		key = DefaultRulesKey
	}
	return &PatternStore{
		kv:     kv,
		key:    key,
		logger: logging.OrDefault(logger),
		now:    time.Now,
	}
}

// NormalizePattern trims and uppercases a pattern.
func NormalizePattern(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}

// Get returns a copy of all rules in storage order.
func (s *PatternStore) Get() []models.LearnedCategoryRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	out := make([]models.LearnedCategoryRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Upsert replaces any rule with the same normalized pattern and appends the
// new rule. Empty patterns are ignored.
func (s *PatternStore) Upsert(pattern, category string) error {
	p := NormalizePattern(pattern)
	if p == "" {
		s.logger.Debug("Ignoring empty pattern", logging.Field{Key: logging.FieldCategory, Value: category})
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	next := s.without(p)
	next = append(next, models.LearnedCategoryRule{
		Pattern:  p,
		Category: strings.TrimSpace(category),
		AddedAt:  s.now().UTC(),
	})
	s.rules = next

	s.logger.Debug("Learned category rule",
		logging.Field{Key: logging.FieldPattern, Value: p},
		logging.Field{Key: logging.FieldCategory, Value: category})
	return s.persist()
}

// Remove deletes the rule whose normalized pattern equals pattern.
func (s *PatternStore) Remove(pattern string) error {
	p := NormalizePattern(pattern)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	next := s.without(p)
	if len(next) == len(s.rules) {
		return nil
	}
	s.rules = next
	return s.persist()
}

// Clear deletes every rule.
func (s *PatternStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules = nil
	s.loaded = true
	if err := s.kv.Delete(s.key); err != nil {
		s.logger.WithError(err).Warn("Failed to clear learned rules", logging.Field{Key: logging.FieldKey, Value: s.key})
		return err
	}
	return nil
}

// Match returns the category of the first rule, in storage order, whose
// pattern is a substring of the uppercased description.
func (s *PatternStore) Match(description string) (string, bool) {
	upper := strings.ToUpper(description)

	s.mu.Lock()
	s.ensureLoaded()
	rules := s.rules
	s.mu.Unlock()

	for _, r := range rules {
		if r.Pattern != "" && strings.Contains(upper, r.Pattern) {
			return r.Category, true
		}
	}
	return "", false
}

// Reload discards the cached rules so the next read goes to the backend.
func (s *PatternStore) Reload() {
	s.mu.Lock()
	s.loaded = false
	s.rules = nil
	s.mu.Unlock()
}

func (s *PatternStore) without(p string) []models.LearnedCategoryRule {
	next := make([]models.LearnedCategoryRule, 0, len(s.rules)+1)
	for _, r := range s.rules {
		if r.Pattern != p {
			next = append(next, r)
		}
	}
	return next
}

// ensureLoaded must be called with s.mu held.
func (s *PatternStore) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.rules = s.load()
}

func (s *PatternStore) load() []models.LearnedCategoryRule {
	raw, found, err := s.kv.Load(s.key)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read learned rules, continuing without them",
			logging.Field{Key: logging.FieldKey, Value: s.key})
		return nil
	}
	if !found || strings.TrimSpace(raw) == "" {
		return nil
	}

	var doc rulesDocument
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		s.logger.WithError(err).Warn("Learned rules are corrupted, continuing without them",
			logging.Field{Key: logging.FieldKey, Value: s.key})
		return nil
	}

	// Deduplicate defensively in case the file was edited by hand.
	seen := make(map[string]bool, len(doc.Rules))
	rules := make([]models.LearnedCategoryRule, 0, len(doc.Rules))
	for _, r := range doc.Rules {
		r.Pattern = NormalizePattern(r.Pattern)
		if r.Pattern == "" || seen[r.Pattern] {
			continue
		}
		seen[r.Pattern] = true
		rules = append(rules, r)
	}

	s.logger.Debug("Loaded learned rules", logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return rules
}

// persist must be called with s.mu held.
func (s *PatternStore) persist() error {
	data, err := yaml.Marshal(rulesDocument{Rules: s.rules})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode learned rules")
		return err
	}
	if err := s.kv.Save(s.key, string(data)); err != nil {
		s.logger.WithError(err).Warn("Failed to save learned rules", logging.Field{Key: logging.FieldKey, Value: s.key})
		return err
	}
	return nil
}
