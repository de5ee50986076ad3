package stores

import (
	"ecards-backend/core"
	"ecards-backend/stores/aws"
	"ecards-backend/stores/filesystem"
	"ecards-backend/stores/memory"
	"ecards-backend/stores/sqlite"
	"os"

	"github.com/sirupsen/logrus"
)

const defaultStoragePath = "data"

func GetStore() core.DraftStore {
	storageType := os.Getenv("STORAGE_TYPE")
	var store core.DraftStore

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	switch storageType {
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		storageField["dataSourceName"] = dataSourceName
		store = sqlite.NewDraftStore(dataSourceName)
	case "s3":
		bucketName := os.Getenv("S3_BUCKET_NAME")
		storageField["bucketName"] = bucketName
		store = aws.NewDraftStore(bucketName)
	case "memory":
		store = memory.NewDraftStore()
	default:
		// The JSON-file table is the canonical backend.
		basePath := os.Getenv("LOCAL_STORAGE_PATH")
		if basePath == "" {
			basePath = defaultStoragePath
		}
		storageField["storageType"] = "filesystem"
		storageField["basePath"] = basePath
		store = filesystem.NewDraftStore(basePath)
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store
}
