package console

import (
	"strings"
	"testing"
)

func TestFormatSuccessMessage(t *testing.T) {
	output := FormatSuccessMessage("scan completed")
	if !strings.Contains(output, "scan completed") {
		t.Errorf("Expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, "✓") {
		t.Errorf("Expected output to contain checkmark, got: %s", output)
	}
}

func TestFormatInfoMessage(t *testing.T) {
	output := FormatInfoMessage("processing repository")
	if !strings.Contains(output, "processing repository") {
		t.Errorf("Expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, "ℹ") {
		t.Errorf("Expected output to contain info icon, got: %s", output)
	}
}

func TestFormatErrorMessage(t *testing.T) {
	output := FormatErrorMessage("scan failed")
	if !strings.Contains(output, "scan failed") {
		t.Errorf("Expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, "✗") {
		t.Errorf("Expected output to contain cross mark, got: %s", output)
	}
}
