package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixtures(t *testing.T) {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"Hỏi-Trả lời.csv":                   "Câu hỏi,Câu trả lời\ngiờ làm việc,8h-17h\n",
		"Danh sách lãnh đạo xã, phường.csv": "Họ và tên,Chức vụ,Thuộc xã/phường\nNguyễn Văn A,Bí thư,ĐỊNH HÓA\n",
		"Tên các TBA.csv":                   "Tên TBA,STT đường dây\nTBA Chợ Chu,471E6.22\n",
		"sample_questions.json":             `["cách đăng ký cấp điện mới"]`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	t.Setenv("HOIDAP_SOURCE_DRIVER", "csv")
	t.Setenv("HOIDAP_CSV_DIR", dir)
	t.Setenv("HOIDAP_SAMPLES_PATH", filepath.Join(dir, "sample_questions.json"))
	t.Setenv("LOG_LEVEL", "disabled")
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cfgFile, outputJSON, noColor, verbose = "", false, false, false

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAsk_Answer(t *testing.T) {
	writeFixtures(t)

	out, _, err := run(t, "", "ask", "giờ", "làm", "việc", "là", "gì")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Trả lời: 8h-17h")
}

func TestAsk_JSON(t *testing.T) {
	writeFixtures(t)

	out, _, err := run(t, "", "ask", "--json", "TBA trên đường dây 471E6.22")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "table", got["kind"])
	assert.Equal(t, "substation", got["intent"])
	assert.NotEmpty(t, got["session_id"])
}

func TestAsk_LoadFailure(t *testing.T) {
	writeFixtures(t)
	t.Setenv("HOIDAP_CSV_DIR", t.TempDir())

	_, _, err := run(t, "", "ask", "giờ làm việc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Lỗi khi kết nối Google Sheets/dữ liệu")
}

func TestChat_Loop(t *testing.T) {
	writeFixtures(t)

	out, _, err := run(t, "lãnh đạo xã định hóa\n\nthoát\ngiờ làm việc\n", "chat")
	require.NoError(t, err)

	assert.Contains(t, out, "cách đăng ký cấp điện mới")
	assert.Contains(t, out, "Danh sách lãnh đạo xã/phường ĐỊNH HÓA")
	assert.Contains(t, out, "Nguyễn Văn A")
	assert.NotContains(t, out, "Trả lời: 8h-17h", "input after the exit word is ignored")
}

func TestSamples(t *testing.T) {
	writeFixtures(t)

	out, _, err := run(t, "", "samples", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"samples":["cách đăng ký cấp điện mới"]}`, out)
}

func TestIsExit(t *testing.T) {
	assert.True(t, isExit("THOÁT"))
	assert.True(t, isExit(" quit "))
	assert.False(t, isExit("thoát khỏi đây"))
}
