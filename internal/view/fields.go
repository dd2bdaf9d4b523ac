package view

// Field identifies one of the operator-editable target inputs.
type Field int

const (
	FieldTargetAirHumidity Field = iota
	FieldLightOnTime
	FieldLightOffTime

	fieldCount
)

// Fields lists the editable fields in display order.
var Fields = [fieldCount]Field{FieldTargetAirHumidity, FieldLightOnTime, FieldLightOffTime}

func (f Field) String() string {
	switch f {
	case FieldTargetAirHumidity:
		return "target_air_humidity"
	case FieldLightOnTime:
		return "light_on_time"
	case FieldLightOffTime:
		return "light_off_time"
	default:
		return "unknown"
	}
}

func (f Field) valid() bool {
	return f >= 0 && f < fieldCount
}

// FieldState is the displayed value of an editable field and whether the
// operator has edited it in this session.
type FieldState struct {
	Value   string
	Touched bool
}

// FormValues are the raw field contents read by the submission path.
type FormValues struct {
	TargetAirHumidity string
	LightOnTime       string
	LightOffTime      string
}
