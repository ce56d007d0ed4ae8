package tui

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"poster_app_go/models"
	"poster_app_go/services"
	"poster_app_go/services/i18n"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	if err := i18n.Load(); err != nil {
		log.Fatalf("failed to load translations: %v", err)
	}
	os.Exit(m.Run())
}

type stubGenerator struct {
	result *models.GenerationResult
	err    error
	calls  int
}

func (g *stubGenerator) Generate(ctx context.Context, form models.PosterForm) (*models.GenerationResult, error) {
	g.calls++
	return g.result, g.err
}

type stubExporter struct{}

func (stubExporter) Export(ctx context.Context, req services.ExportRequest) (*services.ExportedDocument, error) {
	return &services.ExportedDocument{
		Data:      []byte("%PDF-1.3 stub"),
		FileName:  services.DocumentFileName(req.PrintSize),
		PrintSize: req.PrintSize,
	}, nil
}

func newTestStudio(t *testing.T, gen services.PosterGenerator) *services.PosterStudio {
	t.Helper()
	database, err := gorm.Open(sqlite.Open("file:tui_"+uuid.New().String()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, _ := database.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(&models.SessionItem{}))

	return services.NewPosterStudio(services.StudioOptions{
		Store:     services.NewGormKeyValueStore(database, time.Hour),
		Generator: gen,
		Exporter:  stubExporter{},
		Storage:   services.NewLocalStorage(t.TempDir()),
		ErrorLog:  services.NewErrorLogSink(nil, 100),
	})
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func newFilledModel(t *testing.T, gen services.PosterGenerator) *Model {
	t.Helper()
	m, err := NewModel(context.Background(), newTestStudio(t, gen), Options{SessionID: "tui-session", OutDir: t.TempDir()})
	require.NoError(t, err)
	m.Init()

	typeText(m, "本文です")
	press(m, tea.KeyTab)
	typeText(m, "夏祭り")
	press(m, tea.KeyTab)
	press(m, tea.KeyRight) // a4 -> a3
	press(m, tea.KeyTab)
	press(m, tea.KeyLeft) // classic -> pop
	return m
}

func TestModelCollectsForm(t *testing.T) {
	m := newFilledModel(t, &stubGenerator{})

	assert.Equal(t, models.PosterForm{MainContent: "本文です", Title: "夏祭り", PrintSize: "a3", Style: "pop"}, m.Form())
	assert.Contains(t, m.View(), "[A3 (297×420mm)]")
	assert.Contains(t, m.View(), "[ポップ]")
}

func TestModelFormIsRestored(t *testing.T) {
	gen := &stubGenerator{}
	studio := newTestStudio(t, gen)
	ctx := context.Background()
	require.NoError(t, studio.SaveForm(ctx, "s", models.PosterForm{MainContent: "保存済み", Title: "t", PrintSize: "b3", Style: "art"}))

	m, err := NewModel(ctx, studio, Options{SessionID: "s"})
	require.NoError(t, err)
	assert.Equal(t, "保存済み", m.Form().MainContent)
	assert.Equal(t, "b3", m.Form().PrintSize)
	assert.Equal(t, "art", m.Form().Style)
}

func TestModelValidationAlert(t *testing.T) {
	gen := &stubGenerator{}
	m, err := NewModel(context.Background(), newTestStudio(t, gen), Options{SessionID: "s"})
	require.NoError(t, err)

	cmd := press(m, tea.KeyCtrlG)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "メインコンテンツを入力してください。")
	assert.Equal(t, models.ScreenInput, m.State().Screen)
	assert.Zero(t, gen.calls)
}

func TestModelGenerateAndExport(t *testing.T) {
	gen := &stubGenerator{result: &models.GenerationResult{Success: true, ImageURL: "https://img.example/poster.png"}}
	m := newFilledModel(t, gen)
	m.Update(tea.WindowSizeMsg{Width: 400, Height: 40})

	require.NotNil(t, press(m, tea.KeyCtrlG))
	assert.Equal(t, models.ScreenOutput, m.State().Screen)
	assert.Contains(t, m.View(), "生成中...")

	m.Update(m.runGeneration()())
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, models.PreviewImage, m.State().Preview.Kind)
	view := m.View()
	assert.Contains(t, view, "ポップなポスターが完成しました")
	assert.Contains(t, view, "https://img.example/poster.png")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	require.NotNil(t, cmd)
	msg := cmd()
	m.Update(msg)

	done, ok := msg.(exportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, "poster_a3.pdf", filepath.Base(done.path))
	data, err := os.ReadFile(done.path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Contains(t, m.View(), done.path)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Equal(t, models.ScreenInput, m.State().Screen)
	assert.Equal(t, "夏祭り", m.Form().Title)
}

func TestModelGenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: &services.GenerationError{StatusCode: 500, Status: "Internal Server Error"}}
	m := newFilledModel(t, gen)

	press(m, tea.KeyCtrlG)
	m.Update(m.runGeneration()())

	assert.Equal(t, models.PreviewError, m.State().Preview.Kind)
	assert.Contains(t, m.View(), "ポスターの生成に失敗しました。もう一度お試しください。")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "印刷するポスターがありません。")
}

func TestModelBusyGenerationAlert(t *testing.T) {
	m := newFilledModel(t, &stubGenerator{})
	m.Update(generationDoneMsg{err: services.ErrGenerationInProgress})
	assert.Contains(t, m.View(), "ポスターを生成中です。")

	m.Update(exportDoneMsg{err: errors.New("disk full")})
	assert.Contains(t, m.View(), "PDFの生成に失敗しました。")
}

func TestModelQuit(t *testing.T) {
	m := newFilledModel(t, &stubGenerator{})
	cmd := press(m, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWrapHardWrapsUnbrokenText(t *testing.T) {
	m := &Model{width: 24}
	out := m.wrap(strings.Repeat("あ", 40))
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 20)
	}
}
