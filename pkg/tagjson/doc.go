// Package tagjson converts typed attribute trees into annotated JSON.
//
// Plain JSON cannot tell a uint from an int, or a float32 from a float64. The
// annotated form keeps that information in the object keys:
//
//	{
//	  "0:UINT": 5,
//	  "1:ARRAY-INT": [-1, 2],
//	  "2:STRUCT": {"0:FLOAT": 1.5},
//	  "3:BYTES": "AAE=",
//	  "4:ARRAY-?": []
//	}
//
// Each key is "<field-id>:<TAG>", or "<field-id>:<TAG>-<SUBTAG>" for arrays,
// where SUBTAG is the tag of the first element ("?" for an empty array).
// Byte strings are base64 encoded and decode failures become their diagnostic
// message under an ERROR tag.
//
// Encode is pure: it never modifies its input and may be called concurrently
// on independent trees. A value whose type has no tag is a programming error
// and makes Encode fail with ErrUnmappedVariant.
package tagjson
