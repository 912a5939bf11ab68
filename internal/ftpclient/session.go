package ftpclient

import (
	"io"
	"path"
	"strings"

	"github.com/aleister1102/checkftplog/internal/common"
	"github.com/aleister1102/checkftplog/internal/models"

	"github.com/jlaffaye/ftp"
	"github.com/rs/zerolog"
)

// Session is a logged-in connection. It is not safe for concurrent use.
type Session struct {
	conn   remoteConn
	host   string
	logger zerolog.Logger
}

func newSession(conn remoteConn, host string, logger zerolog.Logger) *Session {
	return &Session{conn: conn, host: host, logger: logger}
}

// ListDirectory returns the entries of dir in server order. LIST is tried
// first for entry kinds; servers that reject it are asked for NLST, whose
// entries have an unknown kind.
func (s *Session) ListDirectory(dir string) ([]models.RemoteEntry, error) {
	entries, err := s.conn.List(dir)
	if err == nil {
		return fromListEntries(dir, entries), nil
	}
	s.logger.Debug().Err(err).Str("dir", dir).Msg("LIST failed, falling back to NLST")

	names, nlstErr := s.conn.NameList(dir)
	if nlstErr != nil {
		return nil, common.NewNetworkError(s.host, "listing "+dir+" failed", nlstErr)
	}
	return fromNames(dir, names), nil
}

// FetchBytes downloads entryPath in binary mode. The transfer only counts
// once the server has confirmed it; an aborted RETR is an error even when
// some bytes arrived.
func (s *Session) FetchBytes(entryPath string) ([]byte, error) {
	r, err := s.conn.Open(entryPath)
	if err != nil {
		return nil, common.NewNetworkError(s.host, "RETR "+entryPath+" failed", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		_ = r.Close()
		return nil, common.NewNetworkError(s.host, "reading "+entryPath+" failed", err)
	}
	if err := r.Close(); err != nil {
		return nil, common.NewNetworkError(s.host, "RETR "+entryPath+" failed", err)
	}
	return data, nil
}

// Close ends the session.
func (s *Session) Close() error {
	return s.conn.Quit()
}

// ListingPath turns the configured remote path into the directory to list,
// relative to the login directory: "" lists ".", "logs" lists "./logs".
func ListingPath(remotePath string) string {
	p := strings.Trim(remotePath, "/")
	if p == "" || p == "." {
		return "."
	}
	return "./" + p
}

// JoinEntryPath prefixes a listed name with its directory. Names that already
// carry a directory, as some NLST replies do, are kept.
func JoinEntryPath(dir, name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}

func skipName(name string) bool {
	base := path.Base(name)
	return name == "" || base == "." || base == ".."
}

func fromListEntries(dir string, entries []*ftp.Entry) []models.RemoteEntry {
	result := make([]models.RemoteEntry, 0, len(entries))
	for _, e := range entries {
		if e == nil || skipName(e.Name) {
			continue
		}
		kind := models.EntryKindFile
		switch e.Type {
		case ftp.EntryTypeFolder:
			kind = models.EntryKindDirectory
		case ftp.EntryTypeLink:
			kind = models.EntryKindUnknown
		}
		result = append(result, models.RemoteEntry{
			Path: JoinEntryPath(dir, e.Name),
			Kind: kind,
			Size: int64(e.Size),
		})
	}
	return result
}

func fromNames(dir string, names []string) []models.RemoteEntry {
	result := make([]models.RemoteEntry, 0, len(names))
	for _, name := range names {
		if skipName(name) {
			continue
		}
		result = append(result, models.RemoteEntry{
			Path: JoinEntryPath(dir, name),
			Kind: models.EntryKindUnknown,
		})
	}
	return result
}
