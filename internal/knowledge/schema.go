package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// EntityField describes one field of an entity type.
type EntityField struct {
	Name    string
	Type    string
	Label   string
	Options string // link target, select choices, etc.
}

// EntityType describes one entity-type definition from the registry.
type EntityType struct {
	Name        string
	Module      string
	Description string
	Fields      []EntityField
}

// EntityRegistry lists entity-type definitions. Interface defined here, on
// the consumer side; internal/registry provides the Postgres implementation.
type EntityRegistry interface {
	ListEntityTypes(ctx context.Context, limit int) ([]EntityType, error)
}

// essentialEntityTypes is the allowlist used in constrained mode: the
// high-traffic transactional types users ask about most.
var essentialEntityTypes = []string{
	"Customer", "Item", "Sales Invoice", "Purchase Invoice",
	"Sales Order", "Purchase Order", "Quotation", "Lead",
	"Opportunity", "Delivery Note", "Purchase Receipt",
}

// Constrained-mode bounds keep schema fragments small enough for prompt
// injection without embeddings.
const (
	fullModeEntityLimit    = 50
	essentialFieldLimit    = 15
	essentialFieldTypeList = "Data,Link,Currency,Float,Int,Date"
)

// SchemaAdapter emits one fragment per entity-type definition.
// In constrained mode it restricts itself to the essential allowlist and to
// a handful of scalar/link fields per type.
type SchemaAdapter struct {
	registry EntityRegistry
	lite     bool
	maxChars int
	logger   *slog.Logger
}

// NewSchemaAdapter creates a schema adapter. lite selects constrained mode.
func NewSchemaAdapter(registry EntityRegistry, lite bool, maxChars int, logger *slog.Logger) *SchemaAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchemaAdapter{
		registry: registry,
		lite:     lite,
		maxChars: maxChars,
		logger:   logger,
	}
}

// Name implements Adapter.
func (*SchemaAdapter) Name() string { return "schema" }

// Collect implements Adapter.
func (a *SchemaAdapter) Collect(ctx context.Context) ([]Fragment, error) {
	if a.registry == nil {
		return nil, nil
	}

	types, err := a.registry.ListEntityTypes(ctx, fullModeEntityLimit)
	if err != nil {
		return nil, fmt.Errorf("listing entity types: %w", err)
	}

	if a.lite {
		types = filterEssential(types)
	}

	fragments := make([]Fragment, 0, len(types))
	for _, et := range types {
		content := a.describe(et)
		if f, ok := NewFragment(content, "Schema: "+et.Name, CategorySchema, a.maxChars); ok {
			fragments = append(fragments, f)
		}
	}

	a.logger.Debug("collected schema fragments", "count", len(fragments), "lite", a.lite)
	return fragments, nil
}

// describe renders an entity type as readable schema documentation.
func (a *SchemaAdapter) describe(et EntityType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Entity: %s\n", et.Name)
	if et.Module != "" {
		fmt.Fprintf(&b, "Module: %s\n", et.Module)
	}
	if et.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", et.Description)
	}

	fields := et.Fields
	if a.lite {
		fields = essentialFields(fields)
	}

	b.WriteString("Fields:\n")
	for _, f := range fields {
		label := f.Label
		if label == "" {
			label = f.Name
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", f.Name, f.Type, label)
		if !a.lite && f.Options != "" {
			fmt.Fprintf(&b, "  Options: %s\n", f.Options)
		}
	}
	return b.String()
}

// filterEssential keeps only allowlisted entity types, preserving allowlist
// order so truncation behaves deterministically.
func filterEssential(types []EntityType) []EntityType {
	byName := make(map[string]EntityType, len(types))
	for _, et := range types {
		byName[et.Name] = et
	}

	kept := make([]EntityType, 0, len(essentialEntityTypes))
	for _, name := range essentialEntityTypes {
		if et, ok := byName[name]; ok {
			kept = append(kept, et)
		}
	}
	return kept
}

// essentialFields keeps up to essentialFieldLimit fields of simple kinds.
func essentialFields(fields []EntityField) []EntityField {
	allowed := make(map[string]bool)
	for _, t := range strings.Split(essentialFieldTypeList, ",") {
		allowed[t] = true
	}

	kept := make([]EntityField, 0, essentialFieldLimit)
	for _, f := range fields {
		if !allowed[f.Type] {
			continue
		}
		kept = append(kept, f)
		if len(kept) == essentialFieldLimit {
			break
		}
	}
	return kept
}
