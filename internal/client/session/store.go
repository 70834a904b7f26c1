// Package session persists the client session across restarts.
//
// Credentials (access token, refresh token, fingerprint hash) live in the
// secure area and are sealed with AES-GCM under a key derived from the
// configured secret and a per-installation salt. The language lives in the
// plain area. Every key is read, written and cleared independently.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/cryptox"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/google/uuid"
)

// Storage keys.
const (
	KeyAccessToken     = "session.access_token"
	KeyRefreshToken    = "session.refresh_token"
	KeyFingerprintHash = "session.fingerprint_hash"
	KeyLanguage        = "session.language"

	keyInstallationID = "installation.id"
	keySalt           = "installation.salt"
)

// Data is the durable session record. Empty strings mean "absent".
type Data struct {
	AccessToken     string
	RefreshToken    string
	FingerprintHash string
	Language        models.Locale
}

// Partial describes a Persist call: nil fields are left untouched and
// pointers to "" delete the key.
type Partial struct {
	AccessToken     *string
	RefreshToken    *string
	FingerprintHash *string
	Language        *models.Locale
}

// CredentialsPartial persists c. The fingerprint is only written when the
// server sent one.
func CredentialsPartial(c models.Credentials) Partial {
	p := Partial{
		AccessToken:  common.Ptr(c.AccessToken),
		RefreshToken: common.Ptr(c.RefreshToken),
	}
	if c.FingerprintHash != "" {
		p.FingerprintHash = common.Ptr(c.FingerprintHash)
	}
	return p
}

// Store is the SQLite-backed session store.
type Store struct {
	db             *sql.DB
	key            []byte
	installationID string
	defaultLang    models.Locale
	log            logging.Logger
}

// NewStore prepares the store on an already migrated db. On first use it
// generates an installation id and a key salt. An empty secret falls back to
// the installation id.
func NewStore(ctx context.Context, db *sql.DB, secret string, defaultLang models.Locale, log logging.Logger) (*Store, error) {
	plain := metadata.NewSQLiteRepository(db, metadata.PlainTable)

	id, err := plain.Get(ctx, keyInstallationID)
	if err != nil {
		return nil, err
	}
	if id == nil {
		id = []byte(uuid.NewString())
		if err := plain.Set(ctx, keyInstallationID, id); err != nil {
			return nil, err
		}
	}

	salt, err := plain.Get(ctx, keySalt)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		if err := plain.Set(ctx, keySalt, salt); err != nil {
			return nil, err
		}
	}

	if secret == "" {
		secret = string(id)
	}
	if log == nil {
		log = logging.Nop()
	}

	return &Store{
		db:             db,
		key:            cryptox.DeriveKey([]byte(secret), salt),
		installationID: string(id),
		defaultLang:    defaultLang.OrDefault(),
		log:            log,
	}, nil
}

// InstallationID identifies this client database.
func (s *Store) InstallationID() string {
	return s.installationID
}

// Load reads all four keys. Missing keys read as empty; the language falls
// back to the default locale.
func (s *Store) Load(ctx context.Context) (Data, error) {
	d := Data{Language: s.defaultLang}

	var err error
	if d.AccessToken, err = s.getSecure(ctx, KeyAccessToken); err != nil {
		return Data{}, err
	}
	if d.RefreshToken, err = s.getSecure(ctx, KeyRefreshToken); err != nil {
		return Data{}, err
	}
	if d.FingerprintHash, err = s.getSecure(ctx, KeyFingerprintHash); err != nil {
		return Data{}, err
	}

	lang, err := s.plain(s.db).Get(ctx, KeyLanguage)
	if err != nil {
		return Data{}, err
	}
	if l, ok := models.ParseLocale(string(lang)); ok {
		d.Language = l
	}

	return d, nil
}

// Persist writes the non-nil fields of p.
func (s *Store) Persist(ctx context.Context, p Partial) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.putSecure(ctx, tx, KeyAccessToken, p.AccessToken); err != nil {
			return err
		}
		if err := s.putSecure(ctx, tx, KeyRefreshToken, p.RefreshToken); err != nil {
			return err
		}
		if err := s.putSecure(ctx, tx, KeyFingerprintHash, p.FingerprintHash); err != nil {
			return err
		}
		if p.Language == nil {
			return nil
		}
		if *p.Language == "" {
			return s.plain(tx).Delete(ctx, KeyLanguage)
		}
		return s.plain(tx).Set(ctx, KeyLanguage, []byte(*p.Language))
	})
}

// ClearCredentials removes the secure keys and keeps the language.
func (s *Store) ClearCredentials(ctx context.Context) error {
	return s.Persist(ctx, Partial{
		AccessToken:     common.Ptr(""),
		RefreshToken:    common.Ptr(""),
		FingerprintHash: common.Ptr(""),
	})
}

// Clear removes all four session keys. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	empty := models.Locale("")
	return s.Persist(ctx, Partial{
		AccessToken:     common.Ptr(""),
		RefreshToken:    common.Ptr(""),
		FingerprintHash: common.Ptr(""),
		Language:        &empty,
	})
}

func (s *Store) plain(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db, metadata.PlainTable)
}

func (s *Store) secure(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db, metadata.SecureTable)
}

func (s *Store) getSecure(ctx context.Context, key string) (string, error) {
	blob, err := s.secure(s.db).Get(ctx, key)
	if err != nil {
		return "", err
	}
	if blob == nil {
		return "", nil
	}

	plain, err := cryptox.Open(blob, s.key)
	if err != nil {
		// sealed under another secret; treat as absent
		s.log.Warn(ctx, "discarding unreadable session value", "key", key, "error", err)
		return "", nil
	}
	return string(plain), nil
}

func (s *Store) putSecure(ctx context.Context, tx dbx.DBTX, key string, value *string) error {
	if value == nil {
		return nil
	}
	if *value == "" {
		return s.secure(tx).Delete(ctx, key)
	}

	blob, err := cryptox.Seal([]byte(*value), s.key)
	if err != nil {
		return fmt.Errorf("failed to seal %s: %w", key, err)
	}
	return s.secure(tx).Set(ctx, key, blob)
}
