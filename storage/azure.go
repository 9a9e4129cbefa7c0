package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	log "github.com/sirupsen/logrus"

	"studybuddy-admin/config"
	"studybuddy-admin/domain"
)

// azureAuth is the resolved way of authenticating against a storage account.
// Exactly one of connStr, accountKey or token is set.
type azureAuth struct {
	strategy   string
	connStr    string
	account    string
	accountKey string
	serviceURL string
	token      azcore.TokenCredential
}

func resolveAzureAuth(cfg config.Config) (azureAuth, error) {
	kf, err := loadKeyFile(cfg.KeyFile)
	if err != nil {
		return azureAuth{}, err
	}
	if kf != nil {
		switch {
		case kf.ConnectionString != "":
			return azureAuth{strategy: strategyKeyFile, connStr: kf.ConnectionString}, nil
		case kf.AccountName != "" && kf.AccountKey != "":
			serviceURL := kf.ServiceURL
			if serviceURL == "" {
				serviceURL = fmt.Sprintf("https://%s.table.core.windows.net/", kf.AccountName)
			}
			return azureAuth{
				strategy:   strategyKeyFile,
				account:    kf.AccountName,
				accountKey: kf.AccountKey,
				serviceURL: serviceURL,
			}, nil
		default:
			return azureAuth{}, fmt.Errorf("key file %s holds no storage account credentials", cfg.KeyFile)
		}
	}
	if cfg.ConnectionString != "" {
		return azureAuth{strategy: strategyConnectionString, connStr: cfg.ConnectionString}, nil
	}
	if cfg.ServiceURL == "" {
		return azureAuth{}, errors.New("missing STORAGE_CONNECTION_STRING or STORAGE_SERVICE_URL")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return azureAuth{}, err
	}
	return azureAuth{strategy: strategyDefault, serviceURL: cfg.ServiceURL, token: cred}, nil
}

// Failed calls are surfaced to the caller instead of being retried.
var noRetry = policy.RetryOptions{
	MaxRetries: -1,
	TryTimeout: time.Minute,
}

func newTableServiceClient(auth azureAuth) (*aztables.ServiceClient, error) {
	opts := &aztables.ClientOptions{ClientOptions: azcore.ClientOptions{Retry: noRetry}}
	switch {
	case auth.connStr != "":
		return aztables.NewServiceClientFromConnectionString(auth.connStr, opts)
	case auth.accountKey != "":
		cred, err := aztables.NewSharedKeyCredential(auth.account, auth.accountKey)
		if err != nil {
			return nil, err
		}
		return aztables.NewServiceClientWithSharedKey(auth.serviceURL, cred, opts)
	default:
		return aztables.NewServiceClient(auth.serviceURL, auth.token, opts)
	}
}

func newQueueClient(auth azureAuth, queue string) (*azqueue.QueueClient, error) {
	opts := &azqueue.ClientOptions{ClientOptions: azcore.ClientOptions{Retry: noRetry}}
	switch {
	case auth.connStr != "":
		return azqueue.NewQueueClientFromConnectionString(auth.connStr, queue, opts)
	case auth.accountKey != "":
		cred, err := azqueue.NewSharedKeyCredential(auth.account, auth.accountKey)
		if err != nil {
			return nil, err
		}
		return azqueue.NewQueueClientWithSharedKeyCredential(queueURL(auth.serviceURL, queue), cred, opts)
	default:
		return azqueue.NewQueueClient(queueURL(auth.serviceURL, queue), auth.token, opts)
	}
}

// queueURL derives the queue endpoint of the account owning tableServiceURL.
func queueURL(tableServiceURL, queue string) string {
	base := strings.Replace(tableServiceURL, ".table.", ".queue.", 1)
	return strings.TrimSuffix(base, "/") + "/" + queue
}

func openTables(cfg config.Config) (*TableStore, error) {
	auth, err := resolveAzureAuth(cfg)
	if err != nil {
		return nil, &domain.ConnectError{Backend: string(config.BackendAzure), Err: err}
	}
	svc, err := newTableServiceClient(auth)
	if err != nil {
		return nil, &domain.ConnectError{Backend: string(config.BackendAzure), Strategy: auth.strategy, Err: err}
	}
	log.WithFields(log.Fields{"backend": config.BackendAzure, "credentials": auth.strategy}).Info("connected to table storage")
	return NewTableStore(svc, cfg.Partition, map[string][]string{
		cfg.TasksCollection:  domain.TaskOptionalFields,
		cfg.EventsCollection: domain.EventOptionalFields,
		cfg.UsersCollection:  domain.UserOptionalFields,
	}), nil
}
