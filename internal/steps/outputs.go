package steps

// Adımların yayınladığı output anahtarları. Özet adımı, render adımı ve
// status komutu bu anahtarlar üzerinden okur; kalıcı kopya outputs.json
// içinde aynı adlarla durur.
const (
	OutPublicIP       = "public_ip"
	OutSSHFingerprint = "ssh_fingerprint"
	OutSSHKeyPath     = "ssh_key_path"
	OutBucket         = "bucket_name"
	OutLockTable      = "lock_table"
	OutVaultAddr      = "vault_addr"
	OutVaultTokenFile = "vault_token_file"
	OutVaultPID       = "vault_pid"
)
