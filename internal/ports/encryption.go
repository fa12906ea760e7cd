package ports

// EncryptionService encrypts access tokens before they are persisted.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
