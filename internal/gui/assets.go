package gui

import (
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"

	"github.com/appengine-ltd/steelball/internal/logger"
)

// assetStore loads models, textures and sounds by name from one directory and
// caches them, including misses, until unload. Render thread only.
type assetStore struct {
	dir      string
	audio    bool
	models   map[string]*rl.Model
	textures map[string]*rl.Texture2D
	sounds   map[string]*rl.Sound
	log      *logrus.Entry
}

func newAssetStore(dir string, audio bool) *assetStore {
	return &assetStore{
		dir:      dir,
		audio:    audio,
		models:   make(map[string]*rl.Model),
		textures: make(map[string]*rl.Texture2D),
		sounds:   make(map[string]*rl.Sound),
		log:      logger.For("assets"),
	}
}

func (a *assetStore) path(name, ext string) (string, bool) {
	if a.dir == "" || name == "" {
		return "", false
	}
	p := filepath.Join(a.dir, name+ext)
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

func (a *assetStore) Model(name string) (rl.Model, bool) {
	if m, ok := a.models[name]; ok {
		if m == nil {
			return rl.Model{}, false
		}
		return *m, true
	}
	var loaded *rl.Model
	for _, ext := range []string{".glb", ".gltf", ".obj"} {
		p, ok := a.path(name, ext)
		if !ok {
			continue
		}
		m := rl.LoadModel(p)
		if m.MeshCount == 0 {
			a.log.WithField("path", p).Warn("model has no meshes")
			continue
		}
		loaded = &m
		a.log.WithField("path", p).Debug("model loaded")
		break
	}
	a.models[name] = loaded
	if loaded == nil {
		return rl.Model{}, false
	}
	return *loaded, true
}

func (a *assetStore) Texture(name string) (rl.Texture2D, bool) {
	if t, ok := a.textures[name]; ok {
		if t == nil {
			return rl.Texture2D{}, false
		}
		return *t, true
	}
	var loaded *rl.Texture2D
	if p, ok := a.path(name, ".png"); ok {
		t := rl.LoadTexture(p)
		if t.ID != 0 {
			rl.SetTextureFilter(t, rl.FilterBilinear)
			loaded = &t
		}
	}
	a.textures[name] = loaded
	if loaded == nil {
		return rl.Texture2D{}, false
	}
	return *loaded, true
}

func (a *assetStore) Sound(name string) (rl.Sound, bool) {
	if !a.audio {
		return rl.Sound{}, false
	}
	if s, ok := a.sounds[name]; ok {
		if s == nil {
			return rl.Sound{}, false
		}
		return *s, true
	}
	var loaded *rl.Sound
	for _, ext := range []string{".wav", ".ogg", ".mp3"} {
		p, ok := a.path(name, ext)
		if !ok {
			continue
		}
		s := rl.LoadSound(p)
		if s.FrameCount == 0 {
			continue
		}
		loaded = &s
		break
	}
	a.sounds[name] = loaded
	if loaded == nil {
		return rl.Sound{}, false
	}
	return *loaded, true
}

func (a *assetStore) unload() {
	for name, m := range a.models {
		if m != nil {
			rl.UnloadModel(*m)
		}
		delete(a.models, name)
	}
	for name, t := range a.textures {
		if t != nil {
			rl.UnloadTexture(*t)
		}
		delete(a.textures, name)
	}
	for name, s := range a.sounds {
		if s != nil {
			rl.UnloadSound(*s)
		}
		delete(a.sounds, name)
	}
}
