package format

import (
	"strings"

	"github.com/yankeexe/ollama-manager/pkg/api"
)

// Padding is the number of spaces added after the widest cell of a column.
const Padding = 5

// Absent is rendered in place of a missing optional field.
const Absent = "-"

// Column names an optional VariantRow field shown after the identifier.
type Column int

const (
	ColumnSize Column = iota
	ColumnContext
	ColumnModalities
	ColumnUpdated
	ColumnHash
)

func (c Column) String() string {
	switch c {
	case ColumnSize:
		return "size"
	case ColumnContext:
		return "context"
	case ColumnModalities:
		return "modalities"
	case ColumnUpdated:
		return "updated"
	case ColumnHash:
		return "hash"
	default:
		return "unknown"
	}
}

func (c Column) value(row api.VariantRow) string {
	switch c {
	case ColumnSize:
		return row.Size
	case ColumnContext:
		return row.ContextWindow
	case ColumnModalities:
		return strings.Join(row.Modalities, ",")
	case ColumnUpdated:
		return row.Updated
	case ColumnHash:
		return row.Hash
	default:
		return ""
	}
}

// Table aligns rows into display lines. The first cell of each row is the
// machine-usable identifier: it is never preceded by padding and any
// whitespace inside it is replaced by "-", so FirstToken recovers it. Every
// other column is padded to the widest cell in the batch plus Padding; the
// last column is not padded. Empty cells render as Absent.
func Table(rows [][]string) []string {
	width := map[int]int{}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(row))
		for j, cell := range row {
			if j == 0 {
				cell = identifier(cell)
			} else {
				cell = strings.TrimSpace(cell)
			}
			if cell == "" {
				cell = Absent
			}
			cells[i][j] = cell
			if n := len([]rune(cell)); n > width[j] {
				width[j] = n
			}
		}
	}

	out := make([]string, len(cells))
	for i, row := range cells {
		var b strings.Builder
		for j, cell := range row {
			b.WriteString(cell)
			if j < len(row)-1 {
				b.WriteString(strings.Repeat(" ", width[j]-len([]rune(cell))+Padding))
			}
		}
		out[i] = b.String()
	}
	return out
}

// Variants formats variant rows for the selector. ids holds the identifier
// of each row (same length as rows); cols selects the optional columns that
// exist for this upstream shape.
func Variants(ids []string, rows []api.VariantRow, cols []Column) []string {
	table := make([][]string, len(rows))
	for i, row := range rows {
		line := make([]string, 0, len(cols)+1)
		line = append(line, ids[i])
		for _, c := range cols {
			line = append(line, c.value(row))
		}
		table[i] = line
	}
	return Table(table)
}

// Entries formats catalog entries, one name per line.
func Entries(entries []api.CatalogEntry) []string {
	table := make([][]string, len(entries))
	for i, e := range entries {
		table[i] = []string{e.Name}
	}
	return Table(table)
}

// LocalModels formats local models as "name   size".
func LocalModels(models []api.LocalModel) []string {
	table := make([][]string, len(models))
	for i, m := range models {
		table[i] = []string{m.Name, Size(m.Size)}
	}
	return Table(table)
}

// FirstToken returns the text before the first whitespace run.
func FirstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func identifier(s string) string {
	return strings.Join(strings.Fields(s), "-")
}
