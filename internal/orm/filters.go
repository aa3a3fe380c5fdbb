package orm

import (
	"fmt"
)

// runOutputFilters applies every output filter in registration order
func (m *Model[E]) runOutputFilters(e E) {
	for _, f := range m.outputFilters {
		f(e)
	}
}

// applyInputFilters threads fields through the input filter chain
func (m *Model[E]) applyInputFilters(e E, fields Fields) (Fields, error) {
	for i, f := range m.inputFilters {
		out, err := f(e, fields)
		if err != nil {
			return nil, fmt.Errorf("%s input filter %d: %w", m.name, i, err)
		}
		fields = out
	}
	return fields, nil
}
