package questionbank

import (
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"os"
	"sort"

	"assessment-system/internal/models"
)

// ErrNoQuestionsAvailable is returned when no bank entry matches the
// requested level and domain. Callers must not start a session in that
// case.
var ErrNoQuestionsAvailable = errors.New("no questions available for this level and domain")

// DefaultQuestionCount is how many questions an assessment draws.
const DefaultQuestionCount = 5

// Bank is the static, read-only question collection. It is populated
// once at startup and never mutated afterwards, so reads need no lock.
type Bank struct {
	questions []models.Question
}

// Load builds the bank from the built-in seed set, merged with an
// optional JSON file of extra questions. An unreadable file is logged
// and skipped; the seed set alone is still a usable bank.
func Load(path string) *Bank {
	questions := make([]models.Question, len(seedQuestions))
	copy(questions, seedQuestions)

	if path != "" {
		extra, err := loadFile(path)
		if err != nil {
			log.Printf("Question bank file %s skipped: %v", path, err)
		} else {
			questions = append(questions, extra...)
			log.Printf("Loaded %d extra questions from %s", len(extra), path)
		}
	}

	return &Bank{questions: questions}
}

func loadFile(path string) ([]models.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var questions []models.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// NewBank wraps an explicit question list; used by tests and tools.
func NewBank(questions []models.Question) *Bank {
	return &Bank{questions: questions}
}

func (b *Bank) Len() int {
	return len(b.questions)
}

// Pool returns the bank entries matching level and domain exactly.
func (b *Bank) Pool(level, domain string) []models.Question {
	var pool []models.Question
	for _, q := range b.questions {
		if q.Level == level && q.Domain == domain {
			pool = append(pool, q)
		}
	}
	return pool
}

// Select draws a random subset of up to count questions for the given
// level and domain. The pool is shuffled with a uniform Fisher-Yates
// permutation; if it holds fewer than count entries the whole pool is
// returned rather than an error. An empty pool is the only failure.
func (b *Bank) Select(level, domain string, count int) ([]models.Question, error) {
	pool := b.Pool(level, domain)
	if len(pool) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count], nil
}

// Domains lists the distinct domains present in the bank, sorted.
func (b *Bank) Domains() []string {
	seen := make(map[string]bool)
	var domains []string
	for _, q := range b.questions {
		if !seen[q.Domain] {
			seen[q.Domain] = true
			domains = append(domains, q.Domain)
		}
	}
	sort.Strings(domains)
	return domains
}
