package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleReport = `FIRST INFORMATION REPORT

FIR No.: 123/IPC/2021
Date of Incident: 05 March 2021
Sections: 379 IPC Theft of motor vehicle
Investigating officer: Inspector Ramesh Kumar
`

func TestCaseFields(t *testing.T) {
	fields := CaseFields(sampleReport)
	require.Equal(t, "123/IPC/2021", fields["fir_no"])
	require.Equal(t, "2021-03-05", fields["date"])
	require.Equal(t, "theft", fields["case_type"])
	require.Equal(t, "Inspector Ramesh Kumar", fields["police_handling"])
}

func TestCaseFieldsLowercasesCaseType(t *testing.T) {
	fields := CaseFields("Sections: 457 IPC HOUSE-BREAKING at night")
	require.Equal(t, "house-breaking", fields["case_type"])
}

func TestCaseFieldsMissing(t *testing.T) {
	fields := CaseFields("nothing recognizable here")
	require.Empty(t, fields)
}

func TestCaseFieldsPartial(t *testing.T) {
	fields := CaseFields("FIR No.: 7/CRPC/2019 and nothing else")
	require.Equal(t, map[string]string{"fir_no": "7/CRPC/2019"}, fields)
}

func TestCaseFieldsUnparseableDateKeptRaw(t *testing.T) {
	fields := CaseFields("Date of Incident: 31 Febuary 2021")
	require.Equal(t, "31 Febuary 2021", fields["date"])
}
