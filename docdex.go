// Package docdex turns documentation websites into queryable knowledge
// bases. It crawls a bounded set of same-site pages, extracts the main
// content as markdown, splits it into addressable chunks, embeds the
// chunks, and indexes them in an external vector index for token-budgeted
// semantic retrieval with source citations.
//
// This package contains domain types and interfaces following the
// standard package layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, goquery/).
package docdex
