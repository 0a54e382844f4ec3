package deck

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/phrazzld/procknow/internal/domain"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedDeck is returned for deck files with an unknown extension.
var ErrUnsupportedDeck = errors.New("unsupported deck file")

// Column names recognised in the header row of CSV and XLSX decks.
const (
	colName       = "name"
	colQuestion   = "question"
	colDataType   = "data_type"
	colAnswer     = "answer"
	colComparison = "comparison"
	colHint       = "hint"
	colRepeat     = "repeat"
)

// staticGenerator replays a card stored in a deck file. Rows that could not
// be decoded keep their error so the catalog reports them at draw time.
type staticGenerator struct {
	id   string
	card domain.Card
	err  error
}

func (g staticGenerator) ID() string { return g.id }

func (g staticGenerator) Generate(*rand.Rand) (domain.Card, error) {
	if g.err != nil {
		return domain.Card{}, g.err
	}
	return g.card, nil
}

// yamlDeck is the document layout of a YAML deck file.
type yamlDeck struct {
	Cards []domain.Card `yaml:"cards"`
}

// LoadDir registers the static decks found under dir. The layout mirrors
// topic identifiers: dir/<folder>/<topic>.<ext>, where ext is yaml, yml,
// csv or xlsx. Files that cannot be read are logged and skipped. It returns
// the number of topics registered.
func LoadDir(c *Catalog, dir string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "deck_loader"), slog.String("dir", dir))

	folders, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read deck directory: %w", err)
	}

	loaded := 0
	for _, folder := range folders {
		if !folder.IsDir() || skipName(folder.Name()) {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, folder.Name()))
		if err != nil {
			log.Warn("failed to read deck folder",
				slog.String("folder", folder.Name()),
				slog.String("error", err.Error()))
			continue
		}
		for _, file := range files {
			if file.IsDir() || skipName(file.Name()) {
				continue
			}
			path := filepath.Join(dir, folder.Name(), file.Name())
			topic := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))

			gens, err := LoadFile(path)
			if errors.Is(err, ErrUnsupportedDeck) {
				continue
			}
			if err != nil {
				log.Warn("failed to load deck file",
					slog.String("file", path),
					slog.String("error", err.Error()))
				continue
			}
			if err := c.Register(folder.Name(), topic, gens...); err != nil {
				log.Warn("failed to register deck",
					slog.String("file", path),
					slog.String("error", err.Error()))
				continue
			}
			loaded++
			log.Debug("loaded deck",
				slog.String("topic", domain.TopicID(folder.Name(), topic)),
				slog.Int("cards", len(gens)))
		}
	}
	return loaded, nil
}

func skipName(name string) bool {
	return strings.HasPrefix(name, reservedPrefix) || strings.HasPrefix(name, ".")
}

// LoadFile decodes one deck file into generators, one per card.
func LoadFile(path string) ([]Generator, error) {
	base := filepath.Base(path)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return decodeYAML(base, data)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		rows, err := readCSV(f)
		if err != nil {
			return nil, err
		}
		return fromRows(base, rows)
	case ".xlsx":
		rows, err := readXLSX(path)
		if err != nil {
			return nil, err
		}
		return fromRows(base, rows)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDeck, base)
	}
}

func decodeYAML(base string, data []byte) ([]Generator, error) {
	var deck yamlDeck
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&deck); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode %s: %w", base, err)
	}

	gens := make([]Generator, 0, len(deck.Cards))
	for i, card := range deck.Cards {
		gens = append(gens, staticGenerator{id: staticID(base, i+1, card.Name), card: card})
	}
	return gens, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// fromRows turns a header row plus data rows into generators. Blank rows are
// ignored; malformed rows become generators that fail when drawn.
func fromRows(base string, rows [][]string) ([]Generator, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colName, colQuestion, colDataType, colAnswer} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%s: missing %q column", base, required)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	gens := make([]Generator, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		card, err := cardFromRow(row, cell)
		if err != nil {
			err = fmt.Errorf("%s row %d: %w", base, n+2, err)
		}
		gens = append(gens, staticGenerator{id: staticID(base, n+2, card.Name), card: card, err: err})
	}
	return gens, nil
}

func cardFromRow(row []string, cell func([]string, string) string) (domain.Card, error) {
	card := domain.Card{
		Name:       cell(row, colName),
		Question:   cell(row, colQuestion),
		DataType:   domain.DataType(strings.ToLower(cell(row, colDataType))),
		Comparison: cell(row, colComparison),
		Hint:       cell(row, colHint),
	}

	if raw := cell(row, colAnswer); raw != "" {
		if card.DataType.Valid() {
			answer, err := domain.ParseAnswer(card.DataType, raw)
			if err != nil {
				return card, err
			}
			card.Answer = answer
		} else {
			card.Answer = raw
		}
	}

	if raw := cell(row, colRepeat); raw != "" {
		repeat, err := strconv.Atoi(raw)
		if err != nil {
			return card, fmt.Errorf("%w: repeat %q", domain.ErrInvalidFormat, raw)
		}
		card.Repeat = repeat
	}
	return card, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func staticID(base string, line int, name string) string {
	if name == "" {
		return fmt.Sprintf("%s:%d", base, line)
	}
	return fmt.Sprintf("%s:%d:%s", base, line, name)
}
