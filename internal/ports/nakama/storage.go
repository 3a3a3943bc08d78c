package nakama

import (
	"context"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// storageAPI is the subset of runtime.NakamaModule the storage adapters need.
// Keeping it narrow lets the adapter tests run against an in-memory fake.
type storageAPI interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageList(ctx context.Context, callerID, userID, collection string, limit int, cursor string) ([]*api.StorageObject, string, error)
	MultiUpdate(ctx context.Context, accountUpdates []*runtime.AccountUpdate, storageWrites []*runtime.StorageWrite, storageDeletes []*runtime.StorageDelete, walletUpdates []*runtime.WalletUpdate, updateLedger bool) ([]*api.StorageObjectAck, []*runtime.WalletUpdateResult, error)
}

// readObject fetches a single system-owned object. A missing object is
// reported as ("", "", nil) so callers can apply their defaults.
func readObject(ctx context.Context, nk storageAPI, collection, key string) (value, version string, err error) {
	objects, err := nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: collection, Key: key, UserID: ""},
	})
	if err != nil {
		return "", "", err
	}
	if len(objects) == 0 {
		return "", "", nil
	}
	return objects[0].Value, objects[0].Version, nil
}

// systemWrite builds a server-authoritative storage write. Clients never read
// or write the table sheets directly; all access goes through the module.
func systemWrite(collection, key, value, version string) *runtime.StorageWrite {
	return &runtime.StorageWrite{
		Collection:      collection,
		Key:             key,
		UserID:          "",
		Value:           value,
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}
}
