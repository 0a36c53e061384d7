package cli

import (
	"fmt"
	"strconv"

	"github.com/bcdannyboy/qp/config"
	"github.com/olekukonko/tablewriter"
	"github.com/xhhuango/json"
)

// render writes v as indented JSON or the rows as a table, depending on the
// configured output format.
func (a *app) render(v interface{}, header []string, rows [][]string) error {
	if a.cfg.Output == config.OutputJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = fmt.Fprintln(a.out, string(data))
		return err
	}

	table := tablewriter.NewWriter(a.out)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// fields renders name/value pairs as a two column table.
func (a *app) fields(v interface{}, pairs ...kv) error {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.name, p.value}
	}
	return a.render(v, []string{"field", "value"}, rows)
}

type kv struct {
	name  string
	value string
}

func num(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func field(name string, x float64) kv {
	return kv{name, num(x)}
}
