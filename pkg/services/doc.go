// Package services manages the directory of file-system services exposed by
// the appliance (CephFS and NFS exports) and the CephX credentials that
// belong to CephFS services.
//
// Persistence is delegated to a Store; implementations live under pkg/store.
package services
