// Package rewrite holds the pure string transforms applied to a mirrored
// site: filename classification, hyperlink rewriting and the textual
// domain/asset substitutions. Nothing here touches the filesystem; the
// site package applies these rules while walking the tree.
package rewrite
