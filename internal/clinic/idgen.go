package clinic

import (
	"fmt"
	"regexp"
	"strconv"
)

var patientIDPattern = regexp.MustCompile(`^P(\d+)$`)

// NextAppointmentID derives an appointment identifier from the current row
// count: "A" plus the count+1, zero-padded to three digits. The count is read
// without a lock, so two concurrent writers can derive the same id.
func NextAppointmentID(count int) string {
	return fmt.Sprintf("A%03d", count+1)
}

// NextPatientID derives a patient identifier from the largest existing one.
// A conforming "P<digits>" id is incremented, keeping at least three digits.
// A non-conforming legacy id gets a "_1" suffix instead of failing.
func NextPatientID(last string) string {
	if last == "" {
		return "P001"
	}
	m := patientIDPattern.FindStringSubmatch(last)
	if m == nil {
		return last + "_1"
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return last + "_1"
	}
	width := len(m[1])
	if width < 3 {
		width = 3
	}
	return fmt.Sprintf("P%0*d", width, n+1)
}
