package curriculum

// Area is the subject-area tag of a course.
type Area string

const (
	AreaMathematics  Area = "matematicas"
	AreaEngineering  Area = "ingenieria"
	AreaProgramming  Area = "programacion"
	AreaHumanities   Area = "humanidades"
	AreaFoundational Area = "fofus"
	AreaPhysics      Area = "fisica"
	AreaElectives    Area = "optativos"
)

// AreaDisplayName returns a human-readable name for an area.
// Unknown areas are returned verbatim.
func AreaDisplayName(a Area) string {
	switch a {
	case AreaMathematics:
		return "Mathematics"
	case AreaEngineering:
		return "Engineering"
	case AreaProgramming:
		return "Programming"
	case AreaHumanities:
		return "Humanities"
	case AreaFoundational:
		return "Foundational Studies"
	case AreaPhysics:
		return "Physics"
	case AreaElectives:
		return "Electives"
	default:
		return string(a)
	}
}

// Course is a single catalog entry.
type Course struct {
	Code          string   `json:"code"`
	Title         string   `json:"title"`
	Credits       int      `json:"credits"`
	Semester      int      `json:"semester"`
	Area          Area     `json:"area"`
	Prerequisites []string `json:"prerequisites,omitempty"`
}
