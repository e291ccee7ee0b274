package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeOrgDefaults(t *testing.T, doc string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "acme", "global")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "defaults.yaml"), []byte(doc), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return root
}

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	RootCmd.SetArgs(args)
	defer RootCmd.SetArgs(nil)
	return RootCmd.Execute()
}

func TestResolveCommandValidConfiguration(t *testing.T) {
	root := writeOrgDefaults(t, "repository:\n  wiki:\n    value: true\n")
	if err := runRoot(t, "resolve", "acme", "--metadata-dir", root); err != nil {
		t.Fatalf("valid configuration must succeed: %v", err)
	}
}

func TestResolveCommandInvalidConfigurationFails(t *testing.T) {
	doc := "repository:\n  security_advisories:\n    value: false\n"
	root := writeOrgDefaults(t, doc)
	if err := runRoot(t, "resolve", "acme", "--metadata-dir", root); err == nil {
		t.Fatal("invalid configuration must fail the command")
	}
}

func TestResolveCommandJSONInvalidConfigurationFails(t *testing.T) {
	doc := "repository:\n  security_advisories:\n    value: false\n"
	root := writeOrgDefaults(t, doc)
	err := runRoot(t, "resolve", "acme", "--metadata-dir", root, "--json")
	if err == nil {
		t.Fatal("JSON output must fail on an invalid configuration like the text path")
	}
}
