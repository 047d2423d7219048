// 指示: miu200521358
package yamlasset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_vrc2cvr/pkg/domain/animator"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/logging"
	"github.com/miu200521358/mu_vrc2cvr/pkg/shared/base/merr"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const containerFileMode = 0o644

// loadableExts は読み込み対象の拡張子。
var loadableExts = map[string]struct{}{
	".yaml":       {},
	".yml":        {},
	".controller": {},
	".asset":      {},
	".anim":       {},
	".mask":       {},
}

// AssetRepository はYAMLコンテナの読み込みと書き出しを行う。
// 読み込んだオブジェクトの保存先を記録し、独立アセットの判定と相互参照の書き出しに使う。
type AssetRepository struct {
	paths      map[any]string
	ids        map[any]int64
	containers map[string]*loadedContainer

	registered map[any]string
	pending    map[string][]any
	nextID     map[string]int64

	builtins map[string]*animator.AnimationClip
}

// NewAssetRepository はAssetRepositoryを生成する。
func NewAssetRepository() *AssetRepository {
	return &AssetRepository{
		paths:      map[any]string{},
		ids:        map[any]int64{},
		containers: map[string]*loadedContainer{},
		registered: map[any]string{},
		pending:    map[string][]any{},
		nextID:     map[string]int64{},
		builtins:   map[string]*animator.AnimationClip{},
	}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *AssetRepository) CanLoad(path string) bool {
	_, ok := loadableExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadController はコンテナ内の最初のコントローラーを読み込む。
func (r *AssetRepository) LoadController(path string) (*animator.AnimatorController, error) {
	if !r.CanLoad(path) {
		return nil, fmt.Errorf("コントローラーの拡張子に対応していません: %s", path)
	}
	container, err := r.loadContainer(path)
	if err != nil {
		return nil, err
	}
	for _, id := range container.order {
		if controller, ok := container.objects[id].(*animator.AnimatorController); ok {
			if err := checkLayerGraphs(container.path, controller); err != nil {
				return nil, err
			}
			logAssetInfo("コントローラー読込完了: file=%s name=%s layers=%d", container.path, controller.Name, len(controller.Layers))
			return controller, nil
		}
	}
	return nil, newShapeError("コントローラーが含まれていません: %s", container.path)
}

// checkLayerGraphs は各レイヤーのグラフが他レイヤーを参照していないかを検査する。
func checkLayerGraphs(path string, controller *animator.AnimatorController) error {
	for _, layer := range controller.Layers {
		if layer == nil || layer.StateMachine == nil {
			continue
		}
		if err := layer.StateMachine.CheckClosed(); err != nil {
			return merr.WrapConfigError(merr.ErrorIDUnexpectedAssetShape, err,
				"レイヤーのグラフが配下で閉じていません: %s layer=%s", path, layer.Name)
		}
	}
	return nil
}

// AssetPath はオブジェクトが読み込み元または登録先として属するコンテナのパスを返す。
func (r *AssetRepository) AssetPath(obj any) (string, bool) {
	path, ok := r.paths[obj]
	return path, ok
}

// LoadBuiltinLibrary は組み込みクリップのコンテナを読み込み、クリップ名で引けるようにする。戻り値は登録数。
func (r *AssetRepository) LoadBuiltinLibrary(path string) (int, error) {
	container, err := r.loadContainer(path)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, id := range container.order {
		clip, ok := container.objects[id].(*animator.AnimationClip)
		if !ok {
			continue
		}
		if _, exists := r.builtins[clip.Name]; exists {
			logAssetWarn("組み込みクリップ名が重複しています: %s", clip.Name)
			continue
		}
		r.builtins[clip.Name] = clip
		count++
	}
	logAssetInfo("組み込みクリップ読込完了: file=%s clips=%d", container.path, count)
	return count, nil
}

// BuiltinClip は組み込みクリップを返す。
func (r *AssetRepository) BuiltinClip(key string) (*animator.AnimationClip, bool) {
	clip, ok := r.builtins[key]
	return clip, ok
}

// AddObjectToAsset はオブジェクトを書き出し待ちのコンテナへ登録する。
func (r *AssetRepository) AddObjectToAsset(obj any, containerPath string) error {
	key := filepath.Clean(containerPath)
	if existing, ok := r.paths[obj]; ok {
		return newShapeError("オブジェクトは既に保存先を持っています: %T %s", obj, existing)
	}
	r.nextID[key]++
	id := r.nextID[key]
	r.registered[obj] = key
	r.pending[key] = append(r.pending[key], obj)
	r.paths[obj] = key
	r.ids[obj] = id
	return nil
}

// IsRegistered は書き出し用に登録済みかを返す。
func (r *AssetRepository) IsRegistered(obj any) bool {
	_, ok := r.registered[obj]
	return ok
}

// Flush は登録済みオブジェクトをコンテナファイルへ書き出す。
func (r *AssetRepository) Flush(containerPath string) error {
	key := filepath.Clean(containerPath)
	objects := r.pending[key]
	if len(objects) == 0 {
		return merr.NewConfigError(merr.ErrorIDUnexpectedAssetShape, "書き出すオブジェクトがありません: %s", key)
	}
	ids := make(map[any]int64, len(objects))
	for _, obj := range objects {
		ids[obj] = r.ids[obj]
	}
	encoder := &containerEncoder{repo: r, path: key, ids: ids}
	doc, err := encoder.encode(objects)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrapf(err, "コンテナの符号化に失敗しました: %s", key)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "コンテナの符号化に失敗しました: %s", key)
	}
	if err := os.WriteFile(key, buf.Bytes(), containerFileMode); err != nil {
		return errors.Wrapf(err, "コンテナの書き込みに失敗しました: %s", key)
	}
	logAssetInfo("コンテナ書き出し完了: file=%s objects=%d bytes=%d", key, len(objects), buf.Len())
	return nil
}

// logAssetInfo はアセット入出力のINFOログを出力する。
func logAssetInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logAssetDebug はアセット入出力のDEBUGログを出力する。
func logAssetDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logAssetWarn はアセット入出力のWARNログを出力する。
func logAssetWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}
