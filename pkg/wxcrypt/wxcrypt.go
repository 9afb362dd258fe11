// Package wxcrypt implements the symmetric envelope cipher used by the
// callback protocol.
//
// The 43-character EncodingAESKey base64-decodes (with one pad character
// appended) to a 32-byte AES-256 key whose first 16 bytes double as the CBC
// IV; no IV is transmitted on the wire. The plaintext inside the cipher is
// laid out as
//
//	random[16] | length(4, big-endian) | message[length] | receiverID
//
// and is padded with a PKCS#7 variant whose block size is 32 bytes rather
// than AES's native 16. That block size is part of the wire format and must
// not be "corrected".
package wxcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// blockSize is the padding block size of the envelope format. It is
// deliberately 32, not aes.BlockSize.
const blockSize = 32

var (
	// ErrDecryptFailure is returned for any failure to recover a valid
	// plaintext envelope: bad base64, truncated ciphertext, invalid padding.
	ErrDecryptFailure = errors.New("wxcrypt: decryption failure")

	// ErrReceiverIDMismatch is returned when decryption and unpadding
	// succeed but the receiver id embedded in the plaintext is not the
	// configured one. A wrong key can still produce parseable padding, so
	// this check is what actually authenticates the envelope to a tenant.
	ErrReceiverIDMismatch = errors.New("wxcrypt: receiver id mismatch")
)

// Codec encrypts and decrypts callback envelopes for one tenant.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	key        []byte
	receiverID string
}

// New builds a Codec from the tenant's 43-character EncodingAESKey and its
// expected receiver id (corp id, app id, or suite id depending on platform).
func New(encodingAESKey, receiverID string) (*Codec, error) {
	if len(encodingAESKey) != 43 {
		return nil, fmt.Errorf("wxcrypt: encoding aes key must be 43 characters, got %d", len(encodingAESKey))
	}
	key, err := base64.StdEncoding.DecodeString(encodingAESKey + "=")
	if err != nil {
		return nil, fmt.Errorf("wxcrypt: decoding aes key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("wxcrypt: aes key must decode to 32 bytes, got %d", len(key))
	}
	return &Codec{key: key, receiverID: receiverID}, nil
}

// ReceiverID returns the receiver id this codec authenticates envelopes
// against.
func (c *Codec) ReceiverID() string { return c.receiverID }

// Decrypt recovers the plaintext message from a base64 ciphertext and
// verifies the embedded receiver id. The returned slice is the inner XML
// document only; the random prefix and receiver id are stripped.
func (c *Codec) Decrypt(base64Ciphertext string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(base64Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrDecryptFailure, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d not a multiple of %d", ErrDecryptFailure, len(ciphertext), aes.BlockSize)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailure, err)
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, c.key[:aes.BlockSize]).CryptBlocks(padded, ciphertext)

	plaintext, err := unpad(padded)
	if err != nil {
		return nil, err
	}

	// random[16] | len(4) | msg | receiverID
	if len(plaintext) < 20 {
		return nil, fmt.Errorf("%w: plaintext too short (%d bytes)", ErrDecryptFailure, len(plaintext))
	}
	msgLen := binary.BigEndian.Uint32(plaintext[16:20])
	if uint32(len(plaintext)-20) < msgLen {
		return nil, fmt.Errorf("%w: declared length %d exceeds envelope", ErrDecryptFailure, msgLen)
	}
	msg := plaintext[20 : 20+msgLen]
	receiverID := string(plaintext[20+msgLen:])

	if receiverID != c.receiverID {
		return nil, fmt.Errorf("%w: got %q", ErrReceiverIDMismatch, receiverID)
	}
	return msg, nil
}

// Encrypt wraps a plaintext message in the envelope layout, pads it to the
// 32-byte boundary, AES-CBC-encrypts it, and base64-encodes the result.
func (c *Codec) Encrypt(plaintext []byte) (string, error) {
	buf := make([]byte, 0, 20+len(plaintext)+len(c.receiverID)+blockSize)
	buf = buf[:16]
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("wxcrypt: random prefix: %w", err)
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(plaintext)))
	buf = append(buf, plaintext...)
	buf = append(buf, c.receiverID...)
	buf = pad(buf)

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("wxcrypt: %w", err)
	}
	ciphertext := make([]byte, len(buf))
	cipher.NewCBCEncrypter(block, c.key[:aes.BlockSize]).CryptBlocks(ciphertext, buf)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// pad appends PKCS#7 padding with the envelope's 32-byte block size.
// Data already on a boundary still gets a full block of padding.
func pad(data []byte) []byte {
	n := blockSize - len(data)%blockSize
	for i := 0; i < n; i++ {
		data = append(data, byte(n))
	}
	return data
}

// unpad strips the 32-byte-block PKCS#7 padding, validating both the
// indicator range and that every pad byte matches it.
func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrDecryptFailure)
	}
	n := int(data[len(data)-1])
	if n < 1 || n > blockSize {
		return nil, fmt.Errorf("%w: padding indicator %d outside 1..%d", ErrDecryptFailure, n, blockSize)
	}
	if n > len(data) {
		return nil, fmt.Errorf("%w: padding %d exceeds plaintext length %d", ErrDecryptFailure, n, len(data))
	}
	for _, b := range data[len(data)-n:] {
		if b != byte(n) {
			return nil, fmt.Errorf("%w: inconsistent padding bytes", ErrDecryptFailure)
		}
	}
	return data[:len(data)-n], nil
}
