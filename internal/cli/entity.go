package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strata-bim/strata/internal/model"
)

var (
	entityPropsFlag    bool
	entityQuantsFlag   bool
	entityMaterialFlag bool
	entityClassFlag    bool
	entityDocsFlag     bool
	entityRelatedFlag  bool
	entityRawFlag      bool
	entityAllFlag      bool
	entityJSONFlag     bool
)

// entityCmd represents the entity command
var entityCmd = &cobra.Command{
	Use:   "entity <model> <id>",
	Short: "Show one entity with its lazily resolved details",
	Long: `Entity prints the identity of one entity by STEP id, plus whichever
detail sections are requested: property sets, quantity sets, material,
classifications, document references, and relationships.

Values print as stored in the file; the length scale in the header converts
length units to metres.

Examples:
  # Identity only
  strata entity building.ifc 512

  # Property and quantity sets
  strata entity building.ifc '#512' --props --quants

  # Everything, as JSON
  strata entity building.ifc 512 --all --json
`,
	Args: cobra.ExactArgs(2),
	RunE: runEntity,
}

func init() {
	rootCmd.AddCommand(entityCmd)
	entityCmd.Flags().BoolVar(&entityPropsFlag, "props", false, "Show property sets")
	entityCmd.Flags().BoolVar(&entityQuantsFlag, "quants", false, "Show quantity sets")
	entityCmd.Flags().BoolVar(&entityMaterialFlag, "material", false, "Show the material assignment")
	entityCmd.Flags().BoolVar(&entityClassFlag, "class", false, "Show classification references")
	entityCmd.Flags().BoolVar(&entityDocsFlag, "docs", false, "Show document references")
	entityCmd.Flags().BoolVar(&entityRelatedFlag, "related", false, "Show relationships in both directions")
	entityCmd.Flags().BoolVar(&entityRawFlag, "raw", false, "Show the raw STEP record")
	entityCmd.Flags().BoolVarP(&entityAllFlag, "all", "a", false, "Show every detail section")
	entityCmd.Flags().BoolVar(&entityJSONFlag, "json", false, "Print as JSON")
}

// entityReport collects the requested sections for one entity.
type entityReport struct {
	Entity          model.Info             `json:"entity"`
	Storey          string                 `json:"storey,omitempty"`
	LengthScale     float64                `json:"length_scale"`
	Properties      []model.PropertySet    `json:"properties,omitempty"`
	Quantities      []model.QuantitySet    `json:"quantities,omitempty"`
	Material        *model.Material        `json:"material,omitempty"`
	Classifications []model.Classification `json:"classifications,omitempty"`
	Documents       []model.Document       `json:"documents,omitempty"`
	Relations       []model.Relation       `json:"relations,omitempty"`
	Raw             string                 `json:"raw,omitempty"`

	// Material is nil both when absent and when not requested; the text
	// renderer needs the difference.
	materialRequested bool
}

func runEntity(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := parseEntityID(args[1])
	if err != nil {
		return err
	}

	result, ing, err := loadModel(ctx, args[0], false)
	if err != nil {
		return err
	}
	defer ing.Close()

	st := result.Store
	info, ok := st.Entity(id)
	if !ok {
		// The file may still carry the record even when the entity table
		// does not: property values, geometry, styles.
		if t, exists := st.Index().TypeOf(id); exists {
			return fmt.Errorf("#%d is a %s record, not in the entity table", id, t)
		}
		return fmt.Errorf("entity #%d not found in %s", id, result.Path)
	}

	rep := &entityReport{Entity: info, LengthScale: st.LengthScale()}
	if sid, ok := st.Hierarchy().StoreyOf(id); ok {
		if node, ok := st.Hierarchy().Node(sid); ok {
			rep.Storey = node.Path
		}
	}

	// Extractors return nil for "no sets"; requested sections still render,
	// so pin them to empty slices.
	if entityPropsFlag || entityAllFlag {
		if rep.Properties = st.Properties(id); rep.Properties == nil {
			rep.Properties = []model.PropertySet{}
		}
	}
	if entityQuantsFlag || entityAllFlag {
		if rep.Quantities = st.Quantities(id); rep.Quantities == nil {
			rep.Quantities = []model.QuantitySet{}
		}
	}
	if entityMaterialFlag || entityAllFlag {
		rep.Material = st.Material(id)
		rep.materialRequested = true
	}
	if entityClassFlag || entityAllFlag {
		if rep.Classifications = st.Classifications(id); rep.Classifications == nil {
			rep.Classifications = []model.Classification{}
		}
	}
	if entityDocsFlag || entityAllFlag {
		if rep.Documents = st.Documents(id); rep.Documents == nil {
			rep.Documents = []model.Document{}
		}
	}
	if entityRelatedFlag || entityAllFlag {
		if rep.Relations = st.Relationships(id); rep.Relations == nil {
			rep.Relations = []model.Relation{}
		}
	}
	if entityRawFlag || entityAllFlag {
		if raw, ok := st.RawRecord(id); ok {
			rep.Raw = raw
		}
	}

	if entityJSONFlag {
		return printJSON(rep)
	}
	writeEntityReport(os.Stdout, rep)
	return nil
}

// parseEntityID accepts a STEP id with or without its "#" prefix.
func parseEntityID(arg string) (uint32, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(arg, "#"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid entity id %q", arg)
	}
	return uint32(id), nil
}

func writeEntityReport(w io.Writer, rep *entityReport) {
	info := rep.Entity
	fmt.Fprintf(w, "#%d %s\n", info.ID, info.Type)
	if info.Name != "" {
		fmt.Fprintf(w, "  Name:         %s\n", info.Name)
	}
	if info.GlobalID != "" {
		fmt.Fprintf(w, "  GlobalId:     %s\n", info.GlobalID)
	}
	if info.Description != "" {
		fmt.Fprintf(w, "  Description:  %s\n", info.Description)
	}
	if info.ObjectType != "" {
		fmt.Fprintf(w, "  ObjectType:   %s\n", info.ObjectType)
	}
	if info.IsType {
		fmt.Fprintf(w, "  TypeObject:   yes\n")
	}
	fmt.Fprintf(w, "  Geometry:     %s\n", yesNo(info.HasGeometry))
	if rep.Storey != "" {
		fmt.Fprintf(w, "  Storey:       %s\n", rep.Storey)
	}
	if rep.LengthScale != 1 {
		fmt.Fprintf(w, "  Length scale: %g\n", rep.LengthScale)
	}

	if rep.Properties != nil {
		fmt.Fprintf(w, "\nProperties:\n")
		if len(rep.Properties) == 0 {
			fmt.Fprintln(w, "  (none)")
		}
		for _, set := range rep.Properties {
			fmt.Fprintf(w, "  %s  (#%d)\n", set.Name, set.ID)
			for _, p := range set.Properties {
				fmt.Fprintf(w, "    %s (%s) = %v\n", p.Name, p.Type, p.Value)
			}
		}
	}

	if rep.Quantities != nil {
		fmt.Fprintf(w, "\nQuantities:\n")
		if len(rep.Quantities) == 0 {
			fmt.Fprintln(w, "  (none)")
		}
		for _, set := range rep.Quantities {
			if set.Method != "" {
				fmt.Fprintf(w, "  %s  (#%d, %s)\n", set.Name, set.ID, set.Method)
			} else {
				fmt.Fprintf(w, "  %s  (#%d)\n", set.Name, set.ID)
			}
			for _, q := range set.Quantities {
				fmt.Fprintf(w, "    %s (%s) = %g\n", q.Name, q.Kind, q.Value)
			}
		}
	}

	if rep.materialRequested {
		writeMaterial(w, rep.Material)
	}

	if rep.Classifications != nil {
		fmt.Fprintf(w, "\nClassifications:\n")
		if len(rep.Classifications) == 0 {
			fmt.Fprintln(w, "  (none)")
		}
		for _, c := range rep.Classifications {
			line := c.System
			if line == "" {
				line = "(unnamed system)"
			}
			if c.Edition != "" {
				line += fmt.Sprintf(" [%s]", c.Edition)
			}
			if len(c.Path) > 0 {
				line += ": " + strings.Join(c.Path, " / ")
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	if rep.Documents != nil {
		fmt.Fprintf(w, "\nDocuments:\n")
		if len(rep.Documents) == 0 {
			fmt.Fprintln(w, "  (none)")
		}
		for _, d := range rep.Documents {
			line := d.Name
			if line == "" {
				line = "(unnamed)"
			}
			if d.Identification != "" {
				line += fmt.Sprintf(" [%s]", d.Identification)
			}
			if d.Location != "" {
				line += "  " + d.Location
			}
			fmt.Fprintf(w, "  %s\n", line)
			if d.Description != "" {
				fmt.Fprintf(w, "    %s\n", d.Description)
			}
		}
	}

	if rep.Relations != nil {
		fmt.Fprintf(w, "\nRelationships (%d):\n", len(rep.Relations))
		for _, r := range rep.Relations {
			arrow := "→"
			if r.Direction == "inverse" {
				arrow = "←"
			}
			line := fmt.Sprintf("  %-28s %s #%d", r.Kind, arrow, r.Other)
			if r.OtherType != "" {
				line += " " + r.OtherType
			}
			if r.OtherName != "" {
				line += fmt.Sprintf(" %q", r.OtherName)
			}
			fmt.Fprintf(w, "%s  (rel #%d)\n", line, r.Owner)
		}
	}

	if rep.Raw != "" {
		fmt.Fprintf(w, "\nRaw:\n  %s\n", rep.Raw)
	}
}

func writeMaterial(w io.Writer, m *model.Material) {
	if m == nil {
		fmt.Fprintf(w, "\nMaterial: (none)\n")
		return
	}

	switch m.Type {
	case "LayerSet":
		fmt.Fprintf(w, "\nMaterial: layer set %q\n", m.Name)
		for _, l := range m.Layers {
			line := fmt.Sprintf("  %s  thickness %g", l.Material, l.Thickness)
			if l.Ventilated {
				line += ", ventilated"
			}
			fmt.Fprintln(w, line)
		}
	case "ProfileSet":
		fmt.Fprintf(w, "\nMaterial: profile set %q\n", m.Name)
		for _, p := range m.Profiles {
			fmt.Fprintf(w, "  %s  %s\n", p.Name, p.Material)
		}
	case "ConstituentSet":
		fmt.Fprintf(w, "\nMaterial: constituent set %q\n", m.Name)
		for _, c := range m.Constituents {
			line := fmt.Sprintf("  %s  %s", c.Name, c.Material)
			if c.Fraction > 0 {
				line += fmt.Sprintf(" (%.0f%%)", c.Fraction*100)
			}
			fmt.Fprintln(w, line)
		}
	case "List":
		fmt.Fprintf(w, "\nMaterial: %s\n", strings.Join(m.Materials, ", "))
	default:
		fmt.Fprintf(w, "\nMaterial: %s\n", m.Name)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
