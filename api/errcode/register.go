package errcode

import (
	"fmt"
	"net/http"
	"sync"
)

var (
	errorCodeToDescriptors = map[ErrorCode]ErrorDescriptor{}
	idToDescriptors        = map[string]ErrorDescriptor{}
	groupToDescriptors     = map[string][]ErrorDescriptor{}
)

// ErrorCodeUnknown is a generic error used as a last resort when no
// situation-specific code applies.
var ErrorCodeUnknown = register("errcode", ErrorDescriptor{
	Value:          "UNKNOWN",
	Message:        "unknown error",
	Description:    "Generic error returned when the error has no resolver classification.",
	HTTPStatusCode: http.StatusInternalServerError,
})

const errGroup = "bundle2resolver"

var (
	// ErrorCodeProtocolShape covers a wrong part at a required position,
	// unexpected stream end, unknown pushkey namespace, missing onto, or a
	// non-ascii value in an ascii-required param.
	ErrorCodeProtocolShape = register(errGroup, ErrorDescriptor{
		Value:          "PROTOCOL_SHAPE",
		Message:        "malformed push bundle: %s",
		Description:    "The bundle's part sequence or a part's parameters did not match the expected shape for the current resolver state.",
		HTTPStatusCode: http.StatusBadRequest,
	})

	// ErrorCodeDuplicateUpload is returned when EnsureNoDuplicates sees the
	// same (path, node) key twice within one changegroup.
	ErrorCodeDuplicateUpload = register(errGroup, ErrorDescriptor{
		Value:          "DUPLICATE_UPLOAD",
		Message:        "duplicate upload key in changegroup: %s",
		Description:    "A changegroup part presented the same (path, node) filelog key more than once, which is not permitted under the EnsureNoDuplicates upload policy.",
		HTTPStatusCode: http.StatusBadRequest,
	})

	// ErrorCodeMissingBlob is an internal invariant breach: a filelog is
	// present without a matching content-blob.
	ErrorCodeMissingBlob = register(errGroup, ErrorDescriptor{
		Value:          "MISSING_BLOB",
		Message:        "internal error: content blob missing for filenode %s",
		Description:    "A manifest entry referenced a filelog that was uploaded without a corresponding content-blob record.",
		HTTPStatusCode: http.StatusInternalServerError,
	})

	// ErrorCodePathTooDeep is returned when a manifest walk exceeds the
	// maximum path-component bound.
	ErrorCodePathTooDeep = register(errGroup, ErrorDescriptor{
		Value:          "PATH_TOO_DEEP",
		Message:        "manifest path exceeded maximum depth while walking: %s",
		Description:    "The manifest DAG walk encountered a path with more than 4096 components.",
		HTTPStatusCode: http.StatusBadRequest,
	})

	// ErrorCodeMissingRootManifest is returned when a changeset's root tree
	// manifest id is not NullHash but the revision itself is absent from
	// this push's treegroup2 body. Unlike a subtree entry, the root
	// manifest is never legitimately omitted as unchanged.
	ErrorCodeMissingRootManifest = register(errGroup, ErrorDescriptor{
		Value:          "MISSING_ROOT_MANIFEST",
		Message:        "missing root tree manifest: %s",
		Description:    "A changeset declared a non-null root manifest id that was not present among the push's bundled tree-manifest entries.",
		HTTPStatusCode: http.StatusBadRequest,
	})

	// ErrorCodeParentResolution is returned when a changeset's parent
	// cannot be resolved, either in the push or from the repo.
	ErrorCodeParentResolution = register(errGroup, ErrorDescriptor{
		Value:          "PARENT_RESOLUTION",
		Message:        "failed to resolve parent for changeset %s",
		Description:    "A changeset's parent handle could not be constructed, either from the in-flight push or from the backing repository.",
		HTTPStatusCode: http.StatusBadRequest,
	})

	// ErrorCodeUploadFailure wraps any failed blob or changeset upload.
	ErrorCodeUploadFailure = register(errGroup, ErrorDescriptor{
		Value:          "UPLOAD_FAILURE",
		Message:        "upload failed: %s",
		Description:    "An underlying blob or changeset upload future resolved with an error.",
		HTTPStatusCode: http.StatusInternalServerError,
	})

	// ErrorCodeBookmarkTxn is returned when the bookmark compare-and-swap
	// transaction fails to commit.
	ErrorCodeBookmarkTxn = register(errGroup, ErrorDescriptor{
		Value:          "BOOKMARK_TXN",
		Message:        "bookmark transaction failed",
		Description:    "The bookmark compare-and-swap transaction did not commit, typically because a precondition no longer held.",
		HTTPStatusCode: http.StatusConflict,
	})

	// ErrorCodeHookRejection is returned when at least one pre-commit hook
	// rejected a changeset or file change.
	ErrorCodeHookRejection = register(errGroup, ErrorDescriptor{
		Value:          "HOOK_REJECTION",
		Message:        "hooks failed:\n%s",
		Description:    "One or more changeset-level or file-level hooks rejected the push; the detail carries every rejection.",
		HTTPStatusCode: http.StatusForbidden,
	})

	// ErrorCodePushrebase wraps a failure reported by the external
	// pushrebase engine.
	ErrorCodePushrebase = register(errGroup, ErrorDescriptor{
		Value:          "PUSHREBASE",
		Message:        "pushrebase failed: %s",
		Description:    "The external pushrebase engine reported a failure while rebasing the pushed changesets onto the target bookmark.",
		HTTPStatusCode: http.StatusConflict,
	})

	// ErrorCodeBookmarkMismatch is returned when a pushrebase bundle names
	// a bookmark push other than its own onto bookmark.
	ErrorCodeBookmarkMismatch = register(errGroup, ErrorDescriptor{
		Value:          "BOOKMARK_MISMATCH",
		Message:        "pushrebase bundle named bookmark other than onto bookmark: %s",
		Description:    "A pushrebase bundle's bookmark pushkey named a bookmark other than the bundle's own onto bookmark; only the onto bookmark may be pushed in a pushrebase bundle.",
		HTTPStatusCode: http.StatusBadRequest,
	})
)

var (
	nextCode     = 1000
	registerLock sync.Mutex
)

// Register makes the passed-in error known to the environment and returns a
// new ErrorCode.
func Register(group string, descriptor ErrorDescriptor) ErrorCode {
	return register(group, descriptor)
}

func register(group string, descriptor ErrorDescriptor) ErrorCode {
	registerLock.Lock()
	defer registerLock.Unlock()

	descriptor.Code = ErrorCode(nextCode)

	if _, ok := idToDescriptors[descriptor.Value]; ok {
		panic(fmt.Sprintf("errcode value %q is already registered", descriptor.Value))
	}

	groupToDescriptors[group] = append(groupToDescriptors[group], descriptor)
	errorCodeToDescriptors[descriptor.Code] = descriptor
	idToDescriptors[descriptor.Value] = descriptor

	nextCode++
	return descriptor.Code
}
