package pipeline

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"

	"staffdesk/app/dto"

	"golang.org/x/crypto/chacha20poly1305"
)

// Encrypted artifacts carry a small header so decryption never depends on
// anything but the file and the managed key:
//
//	magic "SDBK" | algo byte | nonce length byte | nonce | AEAD ciphertext
var encMagic = []byte("SDBK")

const (
	algoAESGCM  byte = 1
	algoXChaCha byte = 2
)

var ErrBadKeySize = errors.New("encryption key must be 32 bytes")

func newAEAD(algo byte, key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, ErrBadKeySize
	}
	switch algo {
	case algoAESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case algoXChaCha:
		return chacha20poly1305.NewX(key)
	default:
		return nil, fmt.Errorf("unknown encryption algorithm %d", algo)
	}
}

func algoForMode(mode dto.EncryptionMode) (byte, error) {
	switch mode {
	case dto.EncryptionAES:
		return algoAESGCM, nil
	case dto.EncryptionChaCha20:
		return algoXChaCha, nil
	default:
		return 0, fmt.Errorf("unsupported encryption mode %q", mode)
	}
}

// Encrypt seals path into a .enc sibling and removes the plaintext, making
// the encrypted path canonical. Dumps at portal scale are sealed in one shot.
func Encrypt(path string, mode dto.EncryptionMode, key []byte) (string, error) {
	algo, err := algoForMode(mode)
	if err != nil {
		return "", err
	}
	aead, err := newAEAD(algo, key)
	if err != nil {
		return "", err
	}
	plain, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read artifact: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	outPath := path + ".enc"
	buf := make([]byte, 0, len(encMagic)+2+len(nonce)+len(plain)+aead.Overhead())
	buf = append(buf, encMagic...)
	buf = append(buf, algo, byte(len(nonce)))
	buf = append(buf, nonce...)
	buf = aead.Seal(buf, nonce, plain, nil)
	if err := os.WriteFile(outPath, buf, 0o600); err != nil {
		return "", fmt.Errorf("write encrypted artifact: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("remove plaintext artifact: %w", err)
	}
	return outPath, nil
}

// Decrypt opens src into dst, leaving src untouched. The algorithm is read
// from the artifact header.
func Decrypt(src, dst string, key []byte) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read encrypted artifact: %w", err)
	}
	if len(raw) < len(encMagic)+2 || string(raw[:len(encMagic)]) != string(encMagic) {
		return errors.New("not an encrypted backup artifact")
	}
	algo := raw[len(encMagic)]
	nonceLen := int(raw[len(encMagic)+1])
	rest := raw[len(encMagic)+2:]
	if len(rest) < nonceLen {
		return errors.New("corrupt encrypted artifact header")
	}
	aead, err := newAEAD(algo, key)
	if err != nil {
		return err
	}
	if nonceLen != aead.NonceSize() {
		return errors.New("corrupt encrypted artifact header")
	}
	nonce, ciphertext := rest[:nonceLen], rest[nonceLen:]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("decrypt artifact: %w", err)
	}
	if err := os.WriteFile(dst, plain, 0o600); err != nil {
		return fmt.Errorf("write decrypted artifact: %w", err)
	}
	return nil
}
