/*
Package gconf keeps the configuration of each package in the database.

A configuration is a singleton stored under "_c:" followed by the package
name, encoded with msgpack. It is validated when saved and again when
loaded. Genesis may provide it in the "conf" section, keyed by package name;
a package without a section keeps its defaults.
*/
package gconf
