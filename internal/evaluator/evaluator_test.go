package evaluator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/checkftplog/internal/cache"
	"github.com/aleister1102/checkftplog/internal/common"
	"github.com/aleister1102/checkftplog/internal/config"
	"github.com/aleister1102/checkftplog/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2022, 9, 20, 12, 0, 0, 0, time.UTC)

type fakeSession struct {
	entries   []models.RemoteEntry
	listErr   error
	files     map[string]string
	fetchErrs map[string]error
	fetches   []string
	listedDir string
	closed    bool
}

func (s *fakeSession) ListDirectory(dir string) ([]models.RemoteEntry, error) {
	s.listedDir = dir
	return s.entries, s.listErr
}

func (s *fakeSession) FetchBytes(entryPath string) ([]byte, error) {
	s.fetches = append(s.fetches, entryPath)
	if err := s.fetchErrs[entryPath]; err != nil {
		return nil, err
	}
	return []byte(s.files[entryPath]), nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeConnector struct {
	session *fakeSession
	err     error
	calls   int
}

func (c *fakeConnector) Connect(context.Context) (Session, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.session, nil
}

type memoryStore struct {
	blobs  map[string][]byte
	infos  map[string]cache.BlobInfo
	writes []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{blobs: map[string][]byte{}, infos: map[string]cache.BlobInfo{}}
}

func (m *memoryStore) put(key string, data []byte, modTime time.Time) {
	m.blobs[key] = data
	m.infos[key] = cache.BlobInfo{ModTime: modTime, Size: int64(len(data))}
}

func (m *memoryStore) Exists(key string) bool {
	_, ok := m.blobs[key]
	return ok
}

func (m *memoryStore) Stat(key string) (cache.BlobInfo, error) {
	info, ok := m.infos[key]
	if !ok {
		return cache.BlobInfo{}, common.ErrNotFound
	}
	return info, nil
}

func (m *memoryStore) Read(key string) ([]byte, error) { return m.blobs[key], nil }

func (m *memoryStore) Write(key string, data []byte) error {
	m.writes = append(m.writes, key)
	m.put(key, data, testNow)
	return nil
}

func storLine(datetime, user, transferred string) string {
	return "(000051) " + datetime + " - " + user + " (10.0.1.2)> 226 Successfully transferred \"" + transferred + "\"\r\n"
}

func testConfig(dataSource string) *config.GlobalConfig {
	cfg := config.NewDefaultGlobalConfig()
	cfg.CheckConfig.DataSource = dataSource
	cfg.CheckConfig.Timezone = "UTC"
	cfg.CheckConfig.BakFilePattern = "web_storage_"
	cfg.CheckConfig.MinLogBytes = 10
	return cfg
}

func newTestEvaluator(cfg *config.GlobalConfig, conn *fakeConnector, opts ...Option) *Evaluator {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(cfg, conn, zerolog.Nop(), opts...)
}

func TestEvaluate_MissingPattern(t *testing.T) {
	cfg := testConfig(config.DataSourceLog)
	cfg.CheckConfig.BakFilePattern = ""
	conn := &fakeConnector{session: &fakeSession{}}

	v := newTestEvaluator(cfg, conn).Evaluate(context.Background())

	assert.Equal(t, models.StateUnknown, v.State)
	assert.Equal(t, "No filename pattern specified. Can't run.", v.Message)
	assert.Zero(t, conn.calls, "no connection without a pattern")
}

func TestEvaluate_ConnectionError(t *testing.T) {
	conn := &fakeConnector{err: errors.New("530 Login incorrect")}

	v := newTestEvaluator(testConfig(config.DataSourceLog), conn).Evaluate(context.Background())

	assert.Equal(t, models.StateUnknown, v.State)
	assert.Equal(t, "FTP connection error.", v.Message)
}

func TestEvaluate_EmptyListing(t *testing.T) {
	for _, session := range []*fakeSession{
		{},
		{listErr: errors.New("550 No such directory")},
	} {
		conn := &fakeConnector{session: session}
		v := newTestEvaluator(testConfig(config.DataSourceFilename), conn).Evaluate(context.Background())

		assert.Equal(t, models.StateUnknown, v.State)
		assert.Equal(t, "Logfile directory empty.", v.Message)
		assert.False(t, v.HasAge)
		assert.True(t, session.closed)
	}
}

func TestEvaluate_ListsConfiguredPath(t *testing.T) {
	cfg := testConfig(config.DataSourceFilename)
	cfg.FTPConfig.Path = "flags"
	session := &fakeSession{}

	newTestEvaluator(cfg, &fakeConnector{session: session}).Evaluate(context.Background())
	assert.Equal(t, "./flags", session.listedDir)
}

func TestEvaluate_LogModeFreshBackup(t *testing.T) {
	session := &fakeSession{
		entries: []models.RemoteEntry{{Path: "./fzs-2022-09-20.log", Kind: models.EntryKindFile}},
		files: map[string]string{
			"./fzs-2022-09-20.log": storLine("20.09.2022 2:00:00", "ftp_user", "/backup/web_storage_2022_09_20.bak"),
		},
	}

	v := newTestEvaluator(testConfig(config.DataSourceLog), &fakeConnector{session: session}).Evaluate(context.Background())

	require.Equal(t, models.StateOK, v.State, v.Message)
	assert.Equal(t, 10, v.AgeHours)
	assert.True(t, v.HasAge)
	assert.Equal(t, "Last backup: 10 hours ago (20.09.2022 2:00:00)\nSuccessfull STOR: web_storage_2022_09_20.bak by user ftp_user", v.Message)
}

func TestEvaluate_LogModeExpiredBackup(t *testing.T) {
	cfg := testConfig(config.DataSourceLog)
	cfg.CheckConfig.LogfileAgeDays = 30
	session := &fakeSession{
		entries: []models.RemoteEntry{
			{Path: "./fzs-2022-08-30.log"},
			{Path: "./fzs-2022-09-03.log"},
		},
		files: map[string]string{
			"./fzs-2022-08-30.log": storLine("30.08.2022 0:00:00", "old_user", "/b/web_storage_old.bak"),
			"./fzs-2022-09-03.log": storLine("03.09.2022 20:00:00", "ftp_user", "/b/web_storage_new.bak"),
		},
	}

	v := newTestEvaluator(cfg, &fakeConnector{session: session}).Evaluate(context.Background())

	assert.Equal(t, models.StateWarning, v.State)
	assert.Equal(t, 400, v.AgeHours)
	assert.Equal(t, "Backup expired: newest 400 hours ago (03.09.2022 20:00:00). Expected 336 hours.\nSuccessfull STOR: web_storage_new.bak by user ftp_user.", v.Message)
}

func TestEvaluate_LogModeNoMatchingRecord(t *testing.T) {
	session := &fakeSession{
		entries: []models.RemoteEntry{{Path: "./fzs-2022-09-20.log"}},
		files: map[string]string{
			"./fzs-2022-09-20.log": storLine("20.09.2022 2:00:00", "ftp_user", "/backup/web_code_2022_09_20.bak"),
		},
	}

	v := newTestEvaluator(testConfig(config.DataSourceLog), &fakeConnector{session: session}).Evaluate(context.Background())

	assert.Equal(t, models.StateCritical, v.State)
	assert.Equal(t, "No relevant backup found for pattern web_storage_", v.Message)
}

func TestEvaluate_LogTooShort(t *testing.T) {
	cfg := testConfig(config.DataSourceLog)
	cfg.CheckConfig.MinLogBytes = 10_000
	session := &fakeSession{
		entries: []models.RemoteEntry{{Path: "./fzs-2022-09-20.log"}},
		files: map[string]string{
			"./fzs-2022-09-20.log": storLine("20.09.2022 2:00:00", "ftp_user", "/backup/web_storage_2022_09_20.bak"),
		},
	}

	v := newTestEvaluator(cfg, &fakeConnector{session: session}).Evaluate(context.Background())

	assert.Equal(t, models.StateUnknown, v.State)
	assert.Equal(t, "Log file is too short.", v.Message)
}

func TestEvaluate_LogModeSkipsDirectoriesAndOldFiles(t *testing.T) {
	session := &fakeSession{
		entries: []models.RemoteEntry{
			{Path: "./archive", Kind: models.EntryKindDirectory},
			{Path: "./fzs-2022-08-01.log", Kind: models.EntryKindFile},
			{Path: "./fzs-2022-09-19.log", Kind: models.EntryKindFile},
			{Path: "./fzs-current.log", Kind: models.EntryKindUnknown},
		},
		files: map[string]string{
			"./fzs-2022-09-19.log": storLine("19.09.2022 12:00:00", "a", "/b/web_storage_1.bak"),
			"./fzs-current.log":    storLine("20.09.2022 6:00:00", "b", "/b/web_storage_2.bak"),
		},
	}
	e := newTestEvaluator(testConfig(config.DataSourceLog), &fakeConnector{session: session})

	v := e.Evaluate(context.Background())

	assert.Equal(t, []string{"./fzs-2022-09-19.log", "./fzs-current.log"}, session.fetches)
	assert.Equal(t, models.StateOK, v.State)
	assert.Equal(t, 6, v.AgeHours)
	assert.Contains(t, v.Message, "by user b")

	stats := e.Stats()
	assert.Equal(t, 4, stats.EntriesListed)
	assert.Equal(t, 2, stats.EntriesFetched)
	assert.Equal(t, 2, stats.Candidates)
}

func TestEvaluate_LogModeFetchFailureSkipsEntry(t *testing.T) {
	session := &fakeSession{
		entries: []models.RemoteEntry{{Path: "./fzs-2022-09-19.log"}, {Path: "./fzs-2022-09-20.log"}},
		files: map[string]string{
			"./fzs-2022-09-20.log": storLine("20.09.2022 11:00:00", "ftp_user", "/b/web_storage_x.bak"),
		},
		fetchErrs: map[string]error{"./fzs-2022-09-19.log": errors.New("451 transfer aborted")},
	}
	e := newTestEvaluator(testConfig(config.DataSourceLog), &fakeConnector{session: session})

	v := e.Evaluate(context.Background())

	assert.Equal(t, models.StateOK, v.State)
	assert.Equal(t, 1, v.AgeHours)
	assert.Equal(t, 1, e.Stats().FetchFailures)
}

func TestEvaluate_CachedLogIsNotFetched(t *testing.T) {
	cfg := testConfig(config.DataSourceLog)
	cfg.CacheConfig.Dir = "unused-by-memory-store"
	cfg.CacheConfig.MaxAgeSeconds = 3600
	cfg.CacheConfig.MinExpectedSizeBytes = 20

	store := newMemoryStore()
	store.put("fzs-2022-09-15.log",
		[]byte(storLine("15.09.2022 12:00:00", "ftp_user", "/b/web_storage_cached.bak")),
		testNow.Add(-10*time.Minute))

	session := &fakeSession{entries: []models.RemoteEntry{{Path: "./fzs-2022-09-15.log"}}}
	e := newTestEvaluator(cfg, &fakeConnector{session: session}, WithCacheStore(store))

	v := e.Evaluate(context.Background())

	assert.Empty(t, session.fetches)
	assert.Empty(t, store.writes)
	assert.Equal(t, 1, e.Stats().CacheHits)
	assert.Equal(t, models.StateOK, v.State)
	assert.Equal(t, 120, v.AgeHours)
	assert.Contains(t, v.Message, "web_storage_cached.bak")
}

func TestEvaluate_LiveLogIsFetchedAndCached(t *testing.T) {
	cfg := testConfig(config.DataSourceLog)
	store := newMemoryStore()
	store.put("fzs-2022-09-20.log", []byte("stale copy of today's log that is long"), testNow.Add(-time.Minute))

	session := &fakeSession{
		entries: []models.RemoteEntry{{Path: "./fzs-2022-09-20.log"}},
		files: map[string]string{
			"./fzs-2022-09-20.log": storLine("20.09.2022 11:00:00", "ftp_user", "/b/web_storage_x.bak"),
		},
	}
	e := newTestEvaluator(cfg, &fakeConnector{session: session}, WithCacheStore(store))

	v := e.Evaluate(context.Background())

	assert.Equal(t, []string{"./fzs-2022-09-20.log"}, session.fetches)
	assert.Equal(t, []string{"fzs-2022-09-20.log"}, store.writes)
	assert.Equal(t, 1, e.Stats().CacheWrites)
	assert.Equal(t, models.StateOK, v.State)
}

func TestEvaluate_InvalidLogPattern(t *testing.T) {
	cfg := testConfig(config.DataSourceLog)
	cfg.CheckConfig.BakFilePattern = "web_storage_("
	conn := &fakeConnector{session: &fakeSession{}}

	v := newTestEvaluator(cfg, conn).Evaluate(context.Background())

	assert.Equal(t, models.StateUnknown, v.State)
	assert.True(t, strings.HasPrefix(v.Message, "Invalid backup name pattern: "), v.Message)
	assert.Zero(t, conn.calls)

	cfg.CheckConfig.EscapePattern = true
	v = newTestEvaluator(cfg, conn).Evaluate(context.Background())
	assert.Equal(t, "Logfile directory empty.", v.Message)
}

func TestEvaluate_UnknownDataSource(t *testing.T) {
	cfg := testConfig("database")

	v := newTestEvaluator(cfg, &fakeConnector{session: &fakeSession{}}).Evaluate(context.Background())

	assert.Equal(t, models.StateUnknown, v.State)
	assert.True(t, strings.HasPrefix(v.Message, "Configuration error: "), v.Message)
}

func TestEvaluate_FilenameMode(t *testing.T) {
	tests := []struct {
		name      string
		entries   []string
		wantState models.State
		wantAge   int
		wantMsg   string
	}{
		{
			name:      "fresh OK flag",
			entries:   []string{"./FLAG_19.09.2022_02-00-00_OK", "./FLAG_20.09.2022_02-00-00_OK"},
			wantState: models.StateOK,
			wantAge:   10,
			wantMsg:   "Last backup: 10 hours ago (2022-09-20 02:00:00)\nCompleted successfully ./FLAG_20.09.2022_02-00-00_OK.",
		},
		{
			name:      "expired OK flag",
			entries:   []string{"./FLAG_01.09.2022_12-00-00_OK"},
			wantState: models.StateWarning,
			wantAge:   456,
			wantMsg:   "Backup expired: newest 456 hours ago (2022-09-01 12:00:00). Expected 336 hours.\nCompleted successfully ./FLAG_01.09.2022_12-00-00_OK.",
		},
		{
			name:      "WARN flag within threshold",
			entries:   []string{"./FLAG_20.09.2022_00-00-00_WARN"},
			wantState: models.StateWarning,
			wantAge:   12,
			wantMsg:   "Last backup: 12 hours ago (2022-09-20 00:00:00)\nLast backup completed with Warning ./FLAG_20.09.2022_00-00-00_WARN.",
		},
		{
			name:      "expired WARN flag",
			entries:   []string{"./FLAG_01.09.2022_12-00-00_WARN"},
			wantState: models.StateWarning,
			wantAge:   456,
			wantMsg:   "Last backup: 456 hours ago (2022-09-01 12:00:00). Expected 336 hours.\nExpired. Last backup completed with Warning ./FLAG_01.09.2022_12-00-00_WARN.",
		},
		{
			name:      "newer WARN in the same hour beats older OK",
			entries:   []string{"./FLAG_20.09.2022_02-00-00_OK", "./FLAG_20.09.2022_02-10-00_WARN"},
			wantState: models.StateWarning,
			wantAge:   10,
			wantMsg:   "Last backup: 10 hours ago (2022-09-20 02:10:00)\nLast backup completed with Warning ./FLAG_20.09.2022_02-10-00_WARN.",
		},
		{
			name:      "unrecognised flag",
			entries:   []string{"./FLAG_20.09.2022_02-00-00_FAILED"},
			wantState: models.StateCritical,
			wantAge:   10,
			wantMsg:   "Last backup ./FLAG_20.09.2022_02-00-00_FAILED finished with unrecognised status flag \"FAILED\"",
		},
		{
			name:      "nothing matches pattern",
			entries:   []string{"./OTHER_20.09.2022_02-00-00_OK", "./notes.txt"},
			wantState: models.StateCritical,
			wantMsg:   "No relevant backup found for pattern FLAG_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(config.DataSourceFilename)
			cfg.CheckConfig.BakFilePattern = "FLAG_"
			session := &fakeSession{}
			for _, p := range tt.entries {
				session.entries = append(session.entries, models.RemoteEntry{Path: p, Kind: models.EntryKindDirectory})
			}

			v := newTestEvaluator(cfg, &fakeConnector{session: session}).Evaluate(context.Background())

			assert.Equal(t, tt.wantState, v.State)
			assert.Equal(t, tt.wantAge, v.AgeHours)
			assert.Equal(t, tt.wantMsg, v.Message)
			assert.Empty(t, session.fetches, "filename mode never downloads")
		})
	}
}

func TestEvaluate_FilenameModeUsesConfiguredZone(t *testing.T) {
	cfg := testConfig(config.DataSourceFilename)
	cfg.CheckConfig.BakFilePattern = "FLAG_"
	cfg.CheckConfig.Timezone = "Europe/Madrid"
	session := &fakeSession{entries: []models.RemoteEntry{{Path: "./FLAG_20.09.2022_12-00-00_OK"}}}

	v := newTestEvaluator(cfg, &fakeConnector{session: session}).Evaluate(context.Background())

	// 12:00 in Madrid is 10:00 UTC during summer time.
	assert.Equal(t, 2, v.AgeHours)
}
