package scan

import (
	"fmt"

	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"
)

// Type selects the executor that handles a scan.
type Type string

const (
	Production Type = "production"
	Quality    Type = "quality"
	Warehouse  Type = "warehouse"
)

// ParseType validates a scan type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Production, Quality, Warehouse:
		return Type(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("scanType", fmt.Errorf("%q is not one of production, quality, warehouse", s))
	}
}

// QualityStage is the sub-stage of a quality scan.
type QualityStage string

const (
	NoQualityStage QualityStage = ""
	Receive        QualityStage = "receive"
	Inspect        QualityStage = "inspect"
	Confirm        QualityStage = "confirm"
)

// ParseQualityStage validates a quality sub-stage. The empty string is accepted
// and means "not a quality scan".
func ParseQualityStage(s string) (QualityStage, error) {
	switch QualityStage(s) {
	case NoQualityStage, Receive, Inspect, Confirm:
		return QualityStage(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("qualityStage", fmt.Errorf("%q is not one of receive, inspect, confirm", s))
	}
}

// QualityResult is the inspection verdict carried by inspect and confirm scans.
type QualityResult string

const (
	NoQualityResult   QualityResult = ""
	ResultQualified   QualityResult = "qualified"
	ResultUnqualified QualityResult = "unqualified"
)

// ParseQualityResult validates a quality result. The empty string is accepted.
func ParseQualityResult(s string) (QualityResult, error) {
	switch QualityResult(s) {
	case NoQualityResult, ResultQualified, ResultUnqualified:
		return QualityResult(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("qualityResult", fmt.Errorf("%q is not one of qualified, unqualified", s))
	}
}

// DefectRemark is the controlled disposition of unqualified pieces.
type DefectRemark string

const (
	NoDefectRemark DefectRemark = ""
	RemarkRepair   DefectRemark = "repair"
	RemarkScrap    DefectRemark = "scrap"
)

// ParseDefectRemark validates a defect remark. The empty string is accepted.
func ParseDefectRemark(s string) (DefectRemark, error) {
	switch DefectRemark(s) {
	case NoDefectRemark, RemarkRepair, RemarkScrap:
		return DefectRemark(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("defectRemark", fmt.Errorf("%q is not one of repair, scrap", s))
	}
}

// Result records whether the physical scan was accepted.
type Result string

const (
	Success Result = "success"
	Failure Result = "failure"
)
