package schema

import (
	"context"
	"fmt"

	"github.com/satishbabariya/sqldol/engine"
	"github.com/satishbabariya/sqldol/internal/debug"
	"github.com/satishbabariya/sqldol/schema/introspect"
)

func introspector(eng *engine.Engine) (introspect.Introspector, error) {
	return introspect.NewIntrospector(eng.DB(), string(eng.Dialect()))
}

// Reflect reads every table in the database. This scans the whole catalog;
// callers that need it more than once should keep the MetaData.
func Reflect(ctx context.Context, eng *engine.Engine) (*MetaData, error) {
	in, err := introspector(eng)
	if err != nil {
		return nil, err
	}

	names, err := in.TableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect tables: %w", err)
	}

	tables := make([]*Table, 0, len(names))
	for _, name := range names {
		t, err := in.IntrospectTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to reflect %s: %w", name, err)
		}
		tables = append(tables, fromIntrospected(t, eng))
	}

	debug.Debug("reflected metadata", "dialect", eng.Dialect(), "tables", len(tables))
	return NewMetaData(tables...), nil
}

// ReflectTable reads a single table.
func ReflectTable(ctx context.Context, eng *engine.Engine, name string) (*Table, error) {
	in, err := introspector(eng)
	if err != nil {
		return nil, err
	}

	t, err := in.IntrospectTable(ctx, name)
	if err != nil {
		return nil, err
	}

	debug.Debug("reflected table", "table", name, "columns", len(t.Columns))
	return fromIntrospected(t, eng), nil
}
