package reference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/hoidap/internal/config"
)

type stubSource struct {
	tables map[string]*Table
	err    error
}

func (s *stubSource) FetchTable(_ context.Context, name string) (*Table, error) {
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.tables[name]
	if !ok {
		return nil, &SourceError{Table: name, Op: "fetch", Err: ErrTableNotFound}
	}
	return t, nil
}

func newMapper() *Mapper {
	return NewMapper(config.DefaultConfig().Tables)
}

func TestMapper_QA(t *testing.T) {
	m := newMapper()
	table := &Table{
		Name:    "Hỏi-Trả lời",
		Columns: []string{" câu hỏi ", "Câu trả lời", "Ghi chú"},
		Rows: [][]string{
			{"giờ làm việc", "8h-17h", ""},
			{"", "orphan answer", ""},
			{"số hotline"}, // short row
		},
	}

	got, err := m.QA(table)
	require.NoError(t, err)
	assert.Equal(t, []QARecord{
		{Question: "giờ làm việc", Answer: "8h-17h"},
		{Question: "số hotline", Answer: ""},
	}, got)
	assert.Equal(t, []string{"giờ làm việc", "số hotline"}, Questions(got))
}

func TestMapper_MissingRequiredColumn(t *testing.T) {
	m := newMapper()
	_, err := m.Leadership(&Table{Name: "lãnh đạo", Columns: []string{"Họ và tên"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSource)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Thuộc xã/phường")
}

func TestMapper_Leadership(t *testing.T) {
	m := newMapper()
	table := &Table{
		Name:    "Danh sách lãnh đạo xã, phường",
		Columns: []string{"Họ và tên", "Chức vụ", "Thuộc xã/phường", "Email"},
		Rows: [][]string{
			{"Nguyễn Văn A", "Bí thư", "ĐỊNH HÓA", "a@example.vn"},
			{"Trần Thị B", "Chủ tịch", "Kim Phượng", ""},
		},
	}

	got, err := m.Leadership(table)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "ĐỊNH HÓA", got[0].Region)
	assert.Equal(t, "Nguyễn Văn A", got[0].Name)
	assert.Equal(t, "Bí thư", got[0].Position)
	assert.Empty(t, got[0].Phone, "phone column absent from this sheet")
	assert.Equal(t, Cell{Column: "Email", Value: "a@example.vn"}, got[0].Cells[3])
	assert.Equal(t, []string{"ĐỊNH HÓA", "Kim Phượng"}, DistinctRegions(got))
}

func TestMapper_Substations(t *testing.T) {
	m := newMapper()
	table := &Table{
		Name:    "Tên các TBA",
		Columns: []string{"Tên TBA", "STT đường dây"},
		Rows: [][]string{
			{"TBA Chợ Chu", "471E6.22"},
			{"TBA Bảo Linh", "472E6.22"},
		},
	}

	got, err := m.Substations(table)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "471E6.22", got[0].FeederID)
	assert.Equal(t, "TBA Chợ Chu", got[0].Name)
	assert.Len(t, got[1].Cells, 2)
}

func TestMapper_LoadWrapsSourceErrors(t *testing.T) {
	m := newMapper()
	cause := errors.New("connection refused")

	_, err := m.LoadQA(context.Background(), &stubSource{err: cause})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSource)
	assert.ErrorIs(t, err, cause)

	_, err = m.LoadSubstations(context.Background(), &stubSource{tables: map[string]*Table{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableNotFound)

	var se *SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Tên các TBA", se.Table)
}

func TestDistinctRegions_SkipsBlank(t *testing.T) {
	rows := []LeadershipRecord{{Region: "A"}, {Region: ""}, {Region: "B"}, {Region: "A"}}
	assert.Equal(t, []string{"A", "B"}, DistinctRegions(rows))
}

func TestSourceError_Message(t *testing.T) {
	err := &SourceError{Table: "Tên các TBA", Op: "fetch", Err: ErrTableNotFound}
	assert.Equal(t, `fetch "Tên các TBA": table not found`, err.Error())

	err = &SourceError{Op: "connect", Err: errors.New("timeout")}
	assert.Equal(t, "connect: timeout", err.Error())
}

func TestLoadSampleQuestions(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "sample_questions.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`["giờ làm việc", "  ", "lãnh đạo xã định hóa"]`), 0o600))

	got, err := LoadSampleQuestions(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"giờ làm việc", "lãnh đạo xã định hóa"}, got)

	yamlPath := filepath.Join(dir, "samples.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("- số hotline\n- TBA trên đường dây 471E6.22\n"), 0o600))

	got, err = LoadSampleQuestions(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"số hotline", "TBA trên đường dây 471E6.22"}, got)

	got, err = LoadSampleQuestions("")
	require.NoError(t, err)
	assert.Empty(t, got)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{"not": "a list"}`), 0o600))
	_, err = LoadSampleQuestions(badPath)
	require.Error(t, err)

	_, err = LoadSampleQuestions(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
