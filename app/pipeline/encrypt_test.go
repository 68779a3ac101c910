package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"staffdesk/app/dto"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	content := []byte("-- MySQL dump\nINSERT INTO payroll_runs VALUES (7);\n")

	for _, mode := range []dto.EncryptionMode{dto.EncryptionAES, dto.EncryptionChaCha20} {
		t.Run(string(mode), func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "dump.sql")
			if err := os.WriteFile(src, content, 0o600); err != nil {
				t.Fatal(err)
			}

			out, err := Encrypt(src, mode, testKey())
			if err != nil {
				t.Fatalf("Encrypt: %v", err)
			}
			if !strings.HasSuffix(out, ".enc") {
				t.Errorf("encrypted path = %q, want .enc suffix", out)
			}
			if _, err := os.Stat(src); !os.IsNotExist(err) {
				t.Error("plaintext should be removed after encryption")
			}
			sealed, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			if bytes.Contains(sealed, []byte("payroll_runs")) {
				t.Error("ciphertext leaks plaintext")
			}

			dst := filepath.Join(dir, "plain.sql")
			if err := Decrypt(out, dst, testKey()); err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			got, err := os.ReadFile(dst)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, content) {
				t.Error("decrypted content differs from original")
			}
		})
	}
}

func TestDecryptWrongKey(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dump.sql")
	if err := os.WriteFile(src, []byte("secret"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := Encrypt(src, dto.EncryptionAES, testKey())
	if err != nil {
		t.Fatal(err)
	}
	other := make([]byte, 32)
	if err := Decrypt(out, filepath.Join(dir, "plain"), other); err == nil {
		t.Error("expected authentication failure with wrong key")
	}
}

func TestEncryptRejectsBadKey(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dump.sql")
	if err := os.WriteFile(src, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Encrypt(src, dto.EncryptionAES, []byte("short")); err == nil {
		t.Error("expected key size error")
	}
}

func TestDecryptRejectsForeignFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dump.sql")
	if err := os.WriteFile(src, []byte("-- just a plain dump"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Decrypt(src, filepath.Join(dir, "out"), testKey()); err == nil {
		t.Error("expected header validation failure")
	}
}
