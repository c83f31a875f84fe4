package types

import (
	commontypes "github.com/bytearena/robotworld/common/types"
)

type WatcherMap struct {
	*commontypes.SyncMap
}

func NewWatcherMap() *WatcherMap {
	return &WatcherMap{commontypes.NewSyncMap()}
}

func (wmap *WatcherMap) Get(id string) *Watcher {
	v, _ := wmap.Load(id)
	w, _ := v.(*Watcher)

	return w
}

func (wmap *WatcherMap) Watchers() []*Watcher {
	res := make([]*Watcher, 0, wmap.Len())
	wmap.Range(func(_ string, v interface{}) bool {
		if w, ok := v.(*Watcher); ok {
			res = append(res, w)
		}
		return true
	})

	return res
}
