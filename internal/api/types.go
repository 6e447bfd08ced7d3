// File path: internal/api/types.go
package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davidemarchi/erasmus-advisor/internal/workflow"
)

type step1Request struct {
	HomeUniversity string `json:"home_university"`
}

func (r step1Request) validate() error {
	if strings.TrimSpace(r.HomeUniversity) == "" {
		return errors.New("home_university is required")
	}
	return nil
}

type step2Request struct {
	SessionID  string   `json:"session_id"`
	Department string   `json:"department"`
	StudyPlan  []string `json:"study_plan"`
	Period     string   `json:"period"`
}

func (r step2Request) validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return errors.New("session_id is required")
	}
	if strings.TrimSpace(r.Department) == "" {
		return errors.New("department is required")
	}
	if !workflow.ValidPeriod(r.Period) {
		return fmt.Errorf("period must be %q or %q", workflow.PeriodFall, workflow.PeriodSpring)
	}
	return nil
}

type step2Response struct {
	Destinations []workflow.DestinationCandidate `json:"destinations"`
}

type step3Request struct {
	Destination string   `json:"destination"`
	StudyPlan   []string `json:"study_plan"`
}

func (r step3Request) validate() error {
	if strings.TrimSpace(r.Destination) == "" {
		return errors.New("destination is required")
	}
	if len(r.StudyPlan) == 0 {
		return errors.New("study_plan is required")
	}
	return nil
}

// joinPlan renders a study plan list for the prompt layer.
func joinPlan(plan []string) string {
	kept := make([]string, 0, len(plan))
	for _, exam := range plan {
		if trimmed := strings.TrimSpace(exam); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, ", ")
}

type universitiesResponse struct {
	Universities []string `json:"universities"`
}

type errorResponse struct {
	Error string `json:"error"`
}
