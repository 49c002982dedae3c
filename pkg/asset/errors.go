package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// MissingArtifactError は前段のステージが出力するはずのファイルが存在しない場合のエラーです。
type MissingArtifactError struct {
	Path     string
	Producer string // このファイルを生成するステージ（例: "step 1"）
}

func (e *MissingArtifactError) Error() string {
	if e.Producer == "" {
		return fmt.Sprintf("入力ファイルが見つかりません: %s", e.Path)
	}
	return fmt.Sprintf("入力ファイルが見つかりません: %s (先に %s を実行してください)", e.Path, e.Producer)
}

// Unwrap により errors.Is(err, fs.ErrNotExist) が成立します。
func (e *MissingArtifactError) Unwrap() error {
	return fs.ErrNotExist
}

// RequireArtifact は path が存在するファイルであることを確認します。
func RequireArtifact(path, producer string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MissingArtifactError{Path: path, Producer: producer}
		}
		return fmt.Errorf("入力ファイルの確認に失敗しました (%s): %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("入力パスがディレクトリです: %s", path)
	}
	return nil
}
