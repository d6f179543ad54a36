package encryption

import (
	"testing"

	"goodgood/internal/config"
)

func TestNewEncryptorFromConfig(t *testing.T) {
	t.Parallel()

	keys := func(typ string) config.EncryptionConfig {
		return config.EncryptionConfig{Type: typ, PublicKeyPath: "/k/goodgood.pub", PrivateKeyPath: "/k/goodgood.key"}
	}

	tests := []struct {
		name    string
		cfg     config.EncryptionConfig
		want    string
		wantErr bool
	}{
		{name: "age", cfg: keys("age"), want: "*encryption.AgeEncryptor"},
		{name: "default", cfg: keys(""), want: "*encryption.AgeEncryptor"},
		{name: "age without key paths", cfg: config.EncryptionConfig{Type: "age"}, wantErr: true},
		{name: "age without private key", cfg: config.EncryptionConfig{PublicKeyPath: "/k/goodgood.pub"}, wantErr: true},
		{name: "test", cfg: config.EncryptionConfig{Type: "test"}, want: "*encryption.TestEncryptor"},
		{name: "unknown", cfg: keys("rot13"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewEncryptorFromConfig(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEncryptorFromConfig() error = %v", err)
			}
			switch enc.(type) {
			case *AgeEncryptor:
				if tt.want != "*encryption.AgeEncryptor" {
					t.Errorf("got AgeEncryptor, want %s", tt.want)
				}
			case *TestEncryptor:
				if tt.want != "*encryption.TestEncryptor" {
					t.Errorf("got TestEncryptor, want %s", tt.want)
				}
			default:
				t.Errorf("unexpected type %T", enc)
			}
		})
	}
}
