package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
)

// TableFormatter formats data as aligned columns.
type TableFormatter struct {
	NoHeaders bool
}

// Format renders results, structs and maps as a table. Anything else is
// printed as a single value.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case *Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	case Result:
		return resultsTable([]Result{v}).RenderWithOptions(w, f.NoHeaders)
	case []Result:
		return resultsTable(v).RenderWithOptions(w, f.NoHeaders)
	case []string:
		t := &Table{Headers: []string{"LINE"}}
		for _, line := range v {
			t.AddRow(line)
		}
		return t.RenderWithOptions(w, f.NoHeaders)
	}

	t, err := toTable(data)
	if err != nil {
		_, err = fmt.Fprintln(w, data)
		return err
	}
	return t.RenderWithOptions(w, f.NoHeaders)
}

func resultsTable(results []Result) *Table {
	t := &Table{Headers: []string{"#", "REQUEST", "VALUE", "ERROR"}}
	for i, r := range results {
		t.AddRow(fmt.Sprint(i+1), r.Request, cell(r.Value), cell(r.Error))
	}
	return t
}

// toTable converts a struct or map into a FIELD/VALUE table.
func toTable(data any) (*Table, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	t := &Table{Headers: []string{"FIELD", "VALUE"}}
	switch v.Kind() {
	case reflect.Struct:
		typ := v.Type()
		for i := range typ.NumField() {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			t.AddRow(fieldName(field), cell(fmt.Sprint(v.Field(i).Interface())))
		}
	case reflect.Map:
		keys := make([]string, 0, v.Len())
		values := make(map[string]string, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			values[k] = fmt.Sprint(iter.Value().Interface())
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.AddRow(k, cell(values[k]))
		}
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Kind())
	}
	return t, nil
}

// fieldName prefers the json tag name over the Go field name.
func fieldName(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}
