package importer

// Step is one stage of the per-row state machine.
type Step int

const (
	StepValidate Step = iota
	StepCreateProduct
	StepCategorize
	StepVariants
)

func (s Step) String() string {
	switch s {
	case StepValidate:
		return "validate"
	case StepCreateProduct:
		return "create-product"
	case StepCategorize:
		return "categorize"
	case StepVariants:
		return "variants"
	default:
		return "unknown"
	}
}

// Policy declares how a step's failure affects the row.
type Policy int

const (
	// Fatal fails the row.
	Fatal Policy = iota
	// BestEffort logs and continues; the row's terminal state does not
	// depend on this step.
	BestEffort
)

// stepPolicies is the single place the fatal/best-effort classification
// lives. Asset uploads are best-effort inside their own pool; product and
// variant creation decide the row.
var stepPolicies = map[Step]Policy{
	StepValidate:      Fatal,
	StepCreateProduct: Fatal,
	StepCategorize:    BestEffort,
	StepVariants:      Fatal,
}
