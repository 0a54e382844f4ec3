package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/platform/logger"
)

// Catalog errors
var (
	ErrUnknownFolder = errors.New("unknown folder")
	ErrUnknownTopic  = errors.New("unknown topic")
	ErrInvalidName   = errors.New("invalid folder or topic name")
)

// reservedPrefix marks folder and topic names that are never listed.
const reservedPrefix = "__"

// Catalog indexes generators by folder and topic. It is safe for concurrent
// use; registration normally happens once at startup.
type Catalog struct {
	mu      sync.RWMutex
	folders map[string]map[string][]Generator
	seeder  Seeder
	logger  *slog.Logger
}

// NewCatalog creates an empty catalog that draws with the given seeder.
func NewCatalog(seeder Seeder, logger *slog.Logger) *Catalog {
	if seeder == nil {
		panic("seeder cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		folders: make(map[string]map[string][]Generator),
		seeder:  seeder,
		logger:  logger.With(slog.String("component", "deck_catalog")),
	}
}

// Seeder returns the seeder used for draws.
func (c *Catalog) Seeder() Seeder {
	return c.seeder
}

// Register appends generators to folder.topic, creating the topic if needed.
func (c *Catalog) Register(folder, topic string, gens ...Generator) error {
	if err := validateName(folder, false); err != nil {
		return fmt.Errorf("folder %q: %w", folder, err)
	}
	if err := validateName(topic, true); err != nil {
		return fmt.Errorf("topic %q: %w", topic, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	topics, ok := c.folders[folder]
	if !ok {
		topics = make(map[string][]Generator)
		c.folders[folder] = topics
	}
	topics[topic] = append(topics[topic], gens...)
	return nil
}

func validateName(name string, allowDots bool) error {
	switch {
	case strings.TrimSpace(name) == "":
		return ErrInvalidName
	case strings.HasPrefix(name, reservedPrefix):
		return ErrInvalidName
	case !allowDots && strings.Contains(name, "."):
		return ErrInvalidName
	}
	return nil
}

// Folders lists the registered folders in lexical order.
func (c *Catalog) Folders() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	folders := make([]string, 0, len(c.folders))
	for name := range c.folders {
		folders = append(folders, name)
	}
	sort.Strings(folders)
	return folders
}

// Topics lists the topic names of folder in lexical order.
func (c *Catalog) Topics(folder string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	topics, ok := c.folders[folder]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFolder, folder)
	}
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Generators returns the generators registered for a topic identifier of
// the form "<folder>.<topic>".
func (c *Catalog) Generators(topicID string) ([]Generator, error) {
	folder, topic, found := strings.Cut(topicID, ".")
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, topicID)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	topics, ok := c.folders[folder]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFolder, folder)
	}
	gens, ok := topics[topic]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, topicID)
	}
	out := make([]Generator, len(gens))
	copy(out, gens)
	return out, nil
}

// Draw runs every generator of the topic once, each with its own random
// source. Generators that fail, panic or return an invalid record are
// logged and skipped, so the result may be shorter than the generator list.
func (c *Catalog) Draw(ctx context.Context, topicID string) ([]Drawn, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	gens, err := c.Generators(topicID)
	if err != nil {
		return nil, err
	}

	drawn := make([]Drawn, 0, len(gens))
	for _, gen := range gens {
		card, err := Produce(gen, topicID, c.seeder.Rand())
		if err != nil {
			log.Warn("skipping card generator",
				slog.String("topic", topicID),
				slog.String("generator", gen.ID()),
				slog.String("error", err.Error()))
			continue
		}
		drawn = append(drawn, Drawn{Card: card, Source: gen})
	}

	log.Debug("drew topic",
		slog.String("topic", topicID),
		slog.Int("generators", len(gens)),
		slog.Int("cards", len(drawn)))
	return drawn, nil
}

// Regenerate asks the generator behind d for a fresh instance bound to the
// same topic.
func (c *Catalog) Regenerate(d Drawn) (domain.Card, error) {
	if d.Source == nil {
		return domain.Card{}, fmt.Errorf("card %s has no generator", d.Card.QualifiedID())
	}
	return Produce(d.Source, d.Card.Topic, c.seeder.Rand())
}
