package entities

import "errors"

var ErrStoreEntityNotFound = errors.New("store resource not found")
var ErrBridgeNotFound = errors.New("bridge identifier not found")
var ErrTransport = errors.New("source api request failed")
var ErrSink = errors.New("inserting transfer failed")
