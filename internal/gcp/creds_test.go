package gcp

import "testing"

func TestClientOptionsFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	if got := ClientOptionsFromEnv(); len(got) != 0 {
		t.Fatalf("expected no options, got %d", len(got))
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/etc/creds.json")
	if got := ClientOptionsFromEnv(); len(got) != 1 {
		t.Fatalf("expected file option, got %d", len(got))
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", `{"type":"service_account"}`)
	if got := ClientOptionsFromEnv(); len(got) != 1 {
		t.Fatalf("expected json option, got %d", len(got))
	}
}
