// Package site rewrites a mirrored blog tree in place so it can be served as
// flat static content.
//
// The work is split into four stages that each re-walk the tree:
//
//  1. SynthesizeNotFound derives 404.html from the front page.
//  2. NormalizeFilenames strips query strings, drops crawler duplicates and
//     gives bare top-level pages an .html extension.
//  3. RewriteLinks makes every internal href extension-correct and converts
//     feeds to .rss files.
//  4. RewriteDomains replaces the development origin with the public URL and
//     cleans asset references.
//
// Pipeline runs them in order and reports what changed.
package site
