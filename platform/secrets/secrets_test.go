package secrets

import "testing"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("test-secret")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestNewStore_RejectsEmptySecret(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	encrypted, err := store.Encrypt("AC1234567890")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == "AC1234567890" {
		t.Fatal("ciphertext equals plaintext")
	}

	decrypted, err := store.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != "AC1234567890" {
		t.Fatalf("expected original plaintext, got %q", decrypted)
	}
}

func TestEncrypt_NonDeterministicNonce(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Encrypt("same value")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	second, err := store.Encrypt("same value")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if first == second {
		t.Fatal("two encryptions of the same plaintext must differ")
	}
}

func TestDecrypt_TamperedCiphertextFails(t *testing.T) {
	store := newTestStore(t)

	encrypted, err := store.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	tampered := []byte(encrypted)
	last := len(tampered) - 1
	if tampered[last] == 'a' {
		tampered[last] = 'b'
	} else {
		tampered[last] = 'a'
	}

	if _, err := store.Decrypt(string(tampered)); err == nil {
		t.Fatal("expected error for tampered ciphertext")
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	store := newTestStore(t)
	other, err := NewStore("another-secret")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	encrypted, err := store.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := other.Decrypt(encrypted); err == nil {
		t.Fatal("expected error decrypting with a different key")
	}
}

func TestEncryptOptional_NilAndEmptyStayNil(t *testing.T) {
	store := newTestStore(t)

	if out, err := store.EncryptOptional(nil); err != nil || out != nil {
		t.Fatalf("expected nil, nil for nil input, got %v, %v", out, err)
	}

	empty := ""
	if out, err := store.EncryptOptional(&empty); err != nil || out != nil {
		t.Fatalf("expected nil, nil for empty input, got %v, %v", out, err)
	}
}

func TestDecryptOptional_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	value := "app-password"
	encrypted, err := store.EncryptOptional(&value)
	if err != nil {
		t.Fatalf("EncryptOptional: %v", err)
	}
	if encrypted == nil {
		t.Fatal("expected ciphertext for non-empty value")
	}

	decrypted := store.DecryptOptional(encrypted)
	if decrypted == nil || *decrypted != value {
		t.Fatalf("expected %q back, got %v", value, decrypted)
	}
}

func TestDecryptOptional_BadCiphertextYieldsNil(t *testing.T) {
	store := newTestStore(t)

	garbage := "not-hex-at-all"
	if out := store.DecryptOptional(&garbage); out != nil {
		t.Fatalf("expected nil for undecryptable value, got %q", *out)
	}
}
