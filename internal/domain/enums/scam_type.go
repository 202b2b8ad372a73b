package enums

type ScamType string

const (
	ScamTypeSimpe    ScamType = "simpe"
	ScamTypePhishing ScamType = "phishing"
	ScamTypeFamiliar ScamType = "familiar"
	ScamTypeGobierno ScamType = "gobierno"
	ScamTypeTrabajo  ScamType = "trabajo"
	ScamTypePremio   ScamType = "premio"
	ScamTypeOtro     ScamType = "otro"
)

func (s ScamType) Valid() bool {
	switch s {
	case ScamTypeSimpe, ScamTypePhishing, ScamTypeFamiliar,
		ScamTypeGobierno, ScamTypeTrabajo, ScamTypePremio, ScamTypeOtro:
		return true
	default:
		return false
	}
}
