// Package publish manages the git repository that holds the static site:
// bootstrapping it, committing and pushing updates, and writing the CNAME
// file for custom domains.
package publish
