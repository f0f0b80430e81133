package document

import (
	"bytes"
	"fmt"
)

// Renderer turns a payload into document bytes plus their content type.
type Renderer interface {
	Render(p *Payload) ([]byte, string, error)
}

// TextRenderer emits a plain-text document suitable for kiosk thermal
// printers and for inspection in tests.
type TextRenderer struct{}

func (TextRenderer) Render(p *Payload) ([]byte, string, error) {
	var b bytes.Buffer
	switch p.Kind {
	case KindPrescription:
		fmt.Fprintf(&b, "처방전\n")
		fmt.Fprintf(&b, "환자: %s (%s)\n", p.PatientName, p.PatientRRN)
		fmt.Fprintf(&b, "진료과: %s\n", p.Department)
		fmt.Fprintf(&b, "담당의: %s\n", p.Doctor)
		fmt.Fprintf(&b, "발급일: %s\n", p.IssueDate)
		fmt.Fprintf(&b, "----------------\n")
		for _, it := range p.Items {
			fmt.Fprintf(&b, "%s\t%d원\n", it.Name, it.Fee)
		}
		fmt.Fprintf(&b, "----------------\n")
		fmt.Fprintf(&b, "합계: %d원\n", p.TotalFee)
	case KindConfirmation:
		fmt.Fprintf(&b, "진료확인서\n")
		fmt.Fprintf(&b, "환자: %s (%s)\n", p.PatientName, p.PatientRRN)
		fmt.Fprintf(&b, "진단명: %s\n", p.DiagnosisLabel)
		fmt.Fprintf(&b, "진단일: %s\n", p.DiagnosisDate)
		fmt.Fprintf(&b, "담당의: %s\n", p.Doctor)
		fmt.Fprintf(&b, "발급일: %s\n", p.IssueDate)
	default:
		return nil, "", fmt.Errorf("unknown document kind %q", p.Kind)
	}
	return b.Bytes(), "text/plain; charset=utf-8", nil
}
