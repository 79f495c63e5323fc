package session

import (
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/form"
)

const (
	ButtonIdle        = "Get Price Prediction"
	ButtonBusy        = "Predicting..."
	PlaceholderPrompt = "Fill out the form and click predict to see the estimated price"
)

// FieldView is one input as it should be rendered
type FieldView struct {
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	Kind        form.Kind     `json:"kind"`
	Placeholder string        `json:"placeholder,omitempty"`
	Value       string        `json:"value"`
	Options     []form.Option `json:"options,omitempty"`
}

// View is the render model of a session
type View struct {
	Variant       string      `json:"variant"`
	Phase         Phase       `json:"phase"`
	Busy          bool        `json:"busy"`
	ButtonLabel   string      `json:"button_label"`
	HasPrediction bool        `json:"has_prediction"`
	Prediction    string      `json:"prediction,omitempty"`
	Unit          string      `json:"unit,omitempty"`
	Placeholder   string      `json:"placeholder,omitempty"`
	Error         string      `json:"error,omitempty"`
	Fields        []FieldView `json:"fields"`
}

// View snapshots the session for rendering. The error is independent of the
// prediction: both may be present after a failed resubmission.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema := s.state.Schema()
	v := View{
		Variant:     schema.Name,
		Phase:       s.phase,
		Busy:        s.busy,
		ButtonLabel: ButtonIdle,
		Error:       s.errMsg,
		Fields:      make([]FieldView, 0, len(schema.Fields)),
	}
	if s.busy {
		v.ButtonLabel = ButtonBusy
	}

	if s.prediction != nil {
		v.HasPrediction = true
		v.Prediction = s.prediction.Formatted()
		v.Unit = s.prediction.Unit
	} else {
		v.Placeholder = PlaceholderPrompt
	}

	for _, f := range schema.Fields {
		val, _ := s.state.Get(f.Name)
		label := f.Label
		if label == "" {
			label = f.Name
		}
		v.Fields = append(v.Fields, FieldView{
			Name:        f.Name,
			Label:       label,
			Kind:        f.Kind,
			Placeholder: f.Placeholder,
			Value:       val.String(),
			Options:     f.Options,
		})
	}

	return v
}
