package gg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"goodgood/internal/archive"
	"goodgood/internal/fs"
)

// errPipeAbandoned closes a pipe whose consumer stopped early.
var errPipeAbandoned = errors.New("pipe abandoned")

// archiveTimeLayout prefixes archive IDs so they sort chronologically.
const archiveTimeLayout = "20060102T150405Z"

// Archiver backs the data tree up to a vault as an encrypted tarball and
// restores it again. Backups need only the public key; restores need an
// unlocked DecryptionContext.
type Archiver struct {
	dataDir   string
	ignore    []string
	vault     Vault
	encryptor Encryptor
	logger    Logger
	clock     Clock
	idgen     IDGenerator
}

// NewArchiver creates an Archiver for the tree at dataDir. ignore holds
// extra patterns on top of fs.DefaultIgnorePatterns and the tree's own
// ignore file.
func NewArchiver(dataDir string, ignore []string, vault Vault, encryptor Encryptor, logger Logger, clock Clock, idgen IDGenerator) *Archiver {
	return &Archiver{
		dataDir:   dataDir,
		ignore:    ignore,
		vault:     vault,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
	}
}

// Backup archives, encrypts and uploads the data tree. The ciphertext is
// spooled to a temporary file first so the vault receives an exact size.
// Returns the archive ID.
func (a *Archiver) Backup() (string, error) {
	if !a.encryptor.IsConfigured() {
		return "", fmt.Errorf("encryption keys are not configured: run `goodgood config keys`")
	}
	matcher, err := fs.LoadIgnoreMatcher(a.dataDir, a.ignore)
	if err != nil {
		return "", fmt.Errorf("loading ignore patterns: %w", err)
	}

	spool, err := os.CreateTemp("", "goodgood-backup-*")
	if err != nil {
		return "", fmt.Errorf("creating spool file: %w", err)
	}
	defer os.Remove(spool.Name())
	defer spool.Close()

	pr, pw := io.Pipe()
	type result struct {
		count int
		err   error
	}
	done := make(chan result, 1)
	go func() {
		n, err := archive.Write(a.dataDir, pw, matcher)
		pw.CloseWithError(err)
		done <- result{n, err}
	}()

	encErr := a.encryptor.Encrypt(pr, spool)
	// Unblock the writer if encryption stopped early.
	pr.CloseWithError(errPipeAbandoned)
	res := <-done
	if res.err != nil && !errors.Is(res.err, errPipeAbandoned) {
		return "", fmt.Errorf("archiving data: %w", res.err)
	}
	if encErr != nil {
		return "", fmt.Errorf("encrypting archive: %w", encErr)
	}

	size, err := spool.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", fmt.Errorf("measuring archive: %w", err)
	}
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding archive: %w", err)
	}

	id := a.newArchiveID()
	if err := a.vault.Put(id, spool, size); err != nil {
		return "", fmt.Errorf("uploading archive: %w", err)
	}

	a.logger.Info("backup complete", "archive", id, "files", res.count, "bytes", size)
	return id, nil
}

// Restore downloads, decrypts and unpacks archive id into dest. Files are
// written with durable writes, so restoring into a served tree is safe.
// Returns the number of files written.
func (a *Archiver) Restore(id string, decryptCtx DecryptionContext, dest string) (int, error) {
	if !archive.IsArchiveName(id) {
		return 0, fmt.Errorf("not an archive ID: %q", id)
	}
	if decryptCtx == nil {
		return 0, fmt.Errorf("restoring %s requires an unlocked key", id)
	}

	spool, err := os.CreateTemp("", "goodgood-restore-*")
	if err != nil {
		return 0, fmt.Errorf("creating spool file: %w", err)
	}
	defer os.Remove(spool.Name())
	defer spool.Close()

	if err := a.vault.Get(id, spool); err != nil {
		return 0, fmt.Errorf("downloading archive: %w", err)
	}
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewinding archive: %w", err)
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := decryptCtx.Decrypt(spool, pw)
		pw.CloseWithError(err)
		done <- err
	}()

	count, extractErr := archive.Extract(pr, dest)
	if extractErr == nil {
		// Drain trailing padding so decryption authenticates the whole stream.
		_, extractErr = io.Copy(io.Discard, pr)
	}
	pr.CloseWithError(errPipeAbandoned)
	decErr := <-done

	if decErr != nil && !errors.Is(decErr, errPipeAbandoned) {
		return count, fmt.Errorf("decrypting archive: %w", decErr)
	}
	if extractErr != nil {
		return count, fmt.Errorf("extracting archive: %w", extractErr)
	}

	a.logger.Info("restore complete", "archive", id, "files", count, "dest", dest)
	return count, nil
}

// List returns the archive IDs in the vault, oldest first.
func (a *Archiver) List() ([]string, error) {
	ids, err := a.vault.List()
	if err != nil {
		return nil, fmt.Errorf("listing vault: %w", err)
	}
	archives := make([]string, 0, len(ids))
	for _, id := range ids {
		if archive.IsArchiveName(id) {
			archives = append(archives, id)
		}
	}
	sort.Strings(archives)
	return archives, nil
}

func (a *Archiver) newArchiveID() string {
	suffix := strings.ReplaceAll(a.idgen.New(), "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return a.clock.Now().UTC().Format(archiveTimeLayout) + "-" + suffix + archive.Extension
}
