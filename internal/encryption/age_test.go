package encryption

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"goodgood/internal/config"
)

func newTestAgeEncryptor(t *testing.T) (*AgeEncryptor, config.EncryptionConfig) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.EncryptionConfig{
		Type:           "age",
		PublicKeyPath:  filepath.Join(dir, "keys", "goodgood.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "goodgood.key"),
	}
	return NewAgeEncryptor(cfg), cfg
}

func TestAgeEncryptor_Setup(t *testing.T) {
	t.Parallel()
	e, cfg := newTestAgeEncryptor(t)
	if e.IsConfigured() {
		t.Fatal("IsConfigured() = true before Setup")
	}
	if err := e.Setup("test-passphrase"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false after Setup")
	}

	info, err := os.Stat(cfg.PrivateKeyPath)
	if err != nil {
		t.Fatalf("stat private key: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("private key mode = %v, want 0600", info.Mode().Perm())
	}
	pub, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		t.Fatalf("read public key: %v", err)
	}
	if !bytes.HasPrefix(pub, []byte("age1")) {
		t.Errorf("public key = %q, want age1 prefix", pub)
	}
}

func TestAgeEncryptor_SetupRefusesExistingKeys(t *testing.T) {
	t.Parallel()
	e, cfg := newTestAgeEncryptor(t)
	if err := e.Setup("first"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	before, _ := os.ReadFile(cfg.PublicKeyPath)

	err := e.Setup("second")
	if !errors.Is(err, ErrKeysExist) {
		t.Fatalf("second Setup() error = %v, want ErrKeysExist", err)
	}
	after, _ := os.ReadFile(cfg.PublicKeyPath)
	if !bytes.Equal(before, after) {
		t.Error("second Setup() replaced the public key")
	}
	if _, err := e.Unlock("first"); err != nil {
		t.Errorf("Unlock() with original passphrase: %v", err)
	}
}

func TestAgeEncryptor_SetupEmptyPassphrase(t *testing.T) {
	t.Parallel()
	e, _ := newTestAgeEncryptor(t)
	if err := e.Setup(""); err == nil {
		t.Fatal("Setup(\"\") should fail")
	}
	if e.IsConfigured() {
		t.Error("failed Setup left keys behind")
	}
}

func TestAgeEncryptor_EncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "record json", input: []byte(`{"date":"2026-02-01","message":"Hello"}`)},
		{name: "empty", input: []byte{}},
		{name: "binary", input: []byte{0x1f, 0x8b, 0x00, 0xff}},
		{name: "large", input: bytes.Repeat([]byte("goodgood"), 20000)},
	}

	// One key pair for all cases; scrypt makes Setup slow.
	e, _ := newTestAgeEncryptor(t)
	const passphrase = "test-passphrase"
	if err := e.Setup(passphrase); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	ctx, err := e.Unlock(passphrase)
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var encrypted bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &encrypted); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if len(tt.input) > 0 && bytes.Contains(encrypted.Bytes(), tt.input) {
				t.Error("ciphertext contains the plaintext")
			}

			var decrypted bytes.Buffer
			if err := ctx.Decrypt(bytes.NewReader(encrypted.Bytes()), &decrypted); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(decrypted.Bytes(), tt.input) {
				t.Errorf("round trip: got %d bytes, want %d", decrypted.Len(), len(tt.input))
			}
		})
	}
}

func TestAgeEncryptor_Errors(t *testing.T) {
	t.Parallel()

	t.Run("wrong passphrase", func(t *testing.T) {
		e, _ := newTestAgeEncryptor(t)
		if err := e.Setup("correct"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}
		if _, err := e.Unlock("wrong"); err == nil {
			t.Error("Unlock() with wrong passphrase should fail")
		}
	})

	t.Run("encrypt before setup", func(t *testing.T) {
		e, _ := newTestAgeEncryptor(t)
		var buf bytes.Buffer
		if err := e.Encrypt(bytes.NewReader([]byte("data")), &buf); err == nil {
			t.Error("Encrypt() before Setup should fail")
		}
	})

	t.Run("unlock before setup", func(t *testing.T) {
		e, _ := newTestAgeEncryptor(t)
		if _, err := e.Unlock("passphrase"); err == nil {
			t.Error("Unlock() before Setup should fail")
		}
	})

	t.Run("decrypt garbage", func(t *testing.T) {
		e, _ := newTestAgeEncryptor(t)
		if err := e.Setup("p"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}
		ctx, err := e.Unlock("p")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		var out bytes.Buffer
		if err := ctx.Decrypt(bytes.NewReader([]byte("not age")), &out); err == nil {
			t.Error("Decrypt() of garbage should fail")
		}
	})
}
