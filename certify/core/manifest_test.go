package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Trinoooo/collatz_cert/consts"
	"github.com/Trinoooo/collatz_cert/errs"
)

func TestManifestSaveLoad(t *testing.T) {
	cert := Derive(testTable, 8)
	mf := NewManifest(4, 8, uint64(len(testTable)), cert, "deadbeef")

	if mf.PkgVersion != consts.Version {
		t.Error("expect pkg version", consts.Version, "got", mf.PkgVersion)
	}
	if mf.GeneratorCmd == "" || mf.OsArch == "" || mf.GenTs == "" {
		t.Error("provenance fields should be populated:", mf.GeneratorCmd, mf.OsArch, mf.GenTs)
	}
	if mf.FileVer != consts.FileVerCurrent {
		t.Error("expect current file_ver, got", mf.FileVer)
	}

	path := filepath.Join(t.TempDir(), "cert.json")
	if err := mf.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *mf {
		t.Error("round-trip changed manifest:\n", mf, "\n", loaded)
	}
}

func TestLoadManifestBadJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cert.json")
	if err := os.WriteFile(path, []byte("{not json"), 0660); err != nil {
		t.Fatal(err)
	}

	_, err := LoadManifest(path)
	if errs.GetCode(err) != errs.JsonUnmarshalErrCode {
		t.Error("expect json unmarshal error, got", err)
	}
}
