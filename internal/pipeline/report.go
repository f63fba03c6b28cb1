package pipeline

// Section names one part of the FinalReport.
type Section string

const (
	SectionBrandIdentity   Section = "brand_identity"
	SectionUniqueStrengths Section = "unique_strengths"
	SectionTargetAudience  Section = "target_audience"
	SectionContentStrategy Section = "content_strategy"
	SectionLaunchPlan      Section = "launch_plan"
)

// ReportTitle is the title of every assembled report.
const ReportTitle = "Personal Brand Strategy Report"

// Sections lists the report sections in their fixed order.
func Sections() []Section {
	return []Section{
		SectionBrandIdentity,
		SectionUniqueStrengths,
		SectionTargetAudience,
		SectionContentStrategy,
		SectionLaunchPlan,
	}
}

// Valid reports whether s is one of the known sections.
func (s Section) Valid() bool {
	switch s {
	case SectionBrandIdentity, SectionUniqueStrengths, SectionTargetAudience, SectionContentStrategy, SectionLaunchPlan:
		return true
	default:
		return false
	}
}

// FinalReport is the fixed-shape aggregate of a completed run. A nil section
// means the agent that fills it never ran.
type FinalReport struct {
	Title           string
	BrandIdentity   Result
	UniqueStrengths Result
	TargetAudience  Result
	ContentStrategy Result
	LaunchPlan      Result
}

// Section returns the result stored under s.
func (r *FinalReport) Section(s Section) (Result, bool) {
	var res Result
	switch s {
	case SectionBrandIdentity:
		res = r.BrandIdentity
	case SectionUniqueStrengths:
		res = r.UniqueStrengths
	case SectionTargetAudience:
		res = r.TargetAudience
	case SectionContentStrategy:
		res = r.ContentStrategy
	case SectionLaunchPlan:
		res = r.LaunchPlan
	}
	return res, res != nil
}

// SetSection stores res under s. Unknown sections are ignored.
func (r *FinalReport) SetSection(s Section, res Result) {
	switch s {
	case SectionBrandIdentity:
		r.BrandIdentity = res
	case SectionUniqueStrengths:
		r.UniqueStrengths = res
	case SectionTargetAudience:
		r.TargetAudience = res
	case SectionContentStrategy:
		r.ContentStrategy = res
	case SectionLaunchPlan:
		r.LaunchPlan = res
	}
}

// Complete reports whether every section is present.
func (r *FinalReport) Complete() bool {
	for _, s := range Sections() {
		if _, ok := r.Section(s); !ok {
			return false
		}
	}
	return true
}
