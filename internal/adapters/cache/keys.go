// Package cache holds the Redis backed access key cache, calculation response cache and member lock.
package cache

const keyPrefix = "mdp"

func memberKey(kind, businessGroup, referenceNumber string) string {
	return keyPrefix + ":" + kind + ":" + businessGroup + ":" + referenceNumber
}
